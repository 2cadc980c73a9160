package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tonyh/billdivide/internal/calculator"
	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/storage"
)

// ErrBillInPast is returned when a mutation is attempted on a bill whose
// date has already passed. Past bills are a frozen historical record.
var ErrBillInPast = errors.New("past bills cannot be modified")

// ListFilter narrows ListBills results. Zero value means no filtering.
type ListFilter struct {
	// Status keeps only bills in the given settlement state.
	Status models.Status
	// Query keeps only bills whose title contains the string,
	// case-insensitively.
	Query string
}

// Dashboard is the home screen payload: who owes whom, the current user's
// aggregate position, and the most recent bills.
type Dashboard struct {
	Balances []models.Balance   `json:"balances"`
	Summary  calculator.Summary `json:"summary"`
	Recent   []*models.Bill     `json:"recentBills"`
}

// BillService implements the bill operations on top of a Store.
type BillService struct {
	store    storage.Store
	notifier Notifier
}

// NewBillService creates a bill service.
func NewBillService(store storage.Store, notifier Notifier) *BillService {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &BillService{store: store, notifier: notifier}
}

// CreateBill runs the allocation engine over the request and persists the
// resulting bill. The returned breakdown is the one used to assess shares.
func (s *BillService) CreateBill(ctx context.Context, params calculator.BillParams) (*models.Bill, calculator.Breakdown, error) {
	bill, breakdown, err := calculator.NewBill(params)
	if err != nil {
		return nil, calculator.Breakdown{}, err
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, calculator.Breakdown{}, fmt.Errorf("failed to save bill: %w", err)
	}
	return bill, breakdown, nil
}

// GetBill retrieves a single bill, or storage.ErrNotFound.
func (s *BillService) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	return s.store.GetBill(ctx, billID)
}

// ListBills returns bills most recent first, optionally filtered.
func (s *BillService) ListBills(ctx context.Context, filter ListFilter) ([]*models.Bill, error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, err
	}
	if filter.Status == "" && filter.Query == "" {
		return bills, nil
	}

	query := strings.ToLower(filter.Query)
	filtered := make([]*models.Bill, 0, len(bills))
	for _, b := range bills {
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(b.Title), query) {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered, nil
}

// SettleShare marks one participant's share of a bill as paid. Unknown bills
// and unknown participants are silent no-ops: the caller sees success either
// way, matching the lenient conventions of the UI.
func (s *BillService) SettleShare(ctx context.Context, billID, userID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if calculator.SettleShare(bill, userID) {
		s.save(ctx, bill)
		s.notifier.Notify(ctx, "Your share is marked as paid")
	}
	return bill, nil
}

// SettleBill marks every share of a bill paid and the bill settled. Past
// bills are frozen and cannot be settled this way.
func (s *BillService) SettleBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if bill.IsPast() {
		return nil, ErrBillInPast
	}

	calculator.SettleAll(bill)
	s.save(ctx, bill)
	s.notifier.Notify(ctx, "Bill marked as settled")
	return bill, nil
}

// DeleteBill removes a bill; all derived balances drop its contribution on
// the next read. Past bills are frozen and cannot be deleted.
func (s *BillService) DeleteBill(ctx context.Context, billID string) error {
	bill, err := s.store.GetBill(ctx, billID)
	if err != nil {
		return err
	}
	if bill.IsPast() {
		return ErrBillInPast
	}

	if err := s.store.DeleteBill(ctx, billID); err != nil {
		return err
	}
	s.notifier.Notify(ctx, "Bill deleted")
	return nil
}

// DeleteAllBills clears the ledger. Demo-only reset.
func (s *BillService) DeleteAllBills(ctx context.Context) error {
	return s.store.DeleteAllBills(ctx)
}

// SendReminder confirms a payment reminder for one participant. No message
// is actually delivered anywhere; the confirmation is the whole feature.
func (s *BillService) SendReminder(ctx context.Context, billID, userID string) {
	s.notifier.Notify(ctx, "Reminder sent!")
}

// Dashboard assembles the home screen: balance edges, summary, and the five
// most recent bills.
func (s *BillService) Dashboard(ctx context.Context) (*Dashboard, error) {
	bills, err := s.store.ListBills(ctx)
	if err != nil {
		return nil, err
	}

	balances := calculator.CalculateBalances(bills)
	recent := bills
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return &Dashboard{
		Balances: balances,
		Summary:  calculator.Summarize(balances),
		Recent:   recent,
	}, nil
}

// save writes a mutated bill back. Persistence is best effort: the in-memory
// mutation already happened and the caller gets the updated bill regardless,
// so a write failure is logged rather than surfaced.
func (s *BillService) save(ctx context.Context, bill *models.Bill) {
	if err := s.store.UpdateBill(ctx, bill); err != nil {
		slog.Error("failed to persist bill update", "bill_id", bill.ID, "error", err)
	}
}
