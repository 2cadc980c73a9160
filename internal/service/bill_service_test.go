package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/tonyh/billdivide/internal/calculator"
	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/storage"
	"github.com/tonyh/billdivide/internal/storage/sqlite"
)

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, message string) {
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) last() string {
	if len(n.messages) == 0 {
		return ""
	}
	return n.messages[len(n.messages)-1]
}

func newTestService(t *testing.T) (*BillService, *recordingNotifier) {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("sqlite.New() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.DeleteAllBills(context.Background()); err != nil {
		t.Fatalf("DeleteAllBills() error = %v", err)
	}
	notifier := &recordingNotifier{}
	return NewBillService(store, notifier), notifier
}

func lunchParams(date string) calculator.BillParams {
	return calculator.BillParams{
		Title:      "Lunch",
		Date:       date,
		TaxPercent: 8,
		TipPercent: 10,
		People: []calculator.PersonRef{
			{UserID: models.CurrentUserID, Name: "You"},
			{UserID: "alex", Name: "Alex"},
		},
		Items: []models.Item{
			{Name: "Sandwiches", Price: 30, Participants: []string{models.CurrentUserID, "alex"}},
		},
	}
}

func dateFromToday(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func TestCreateBillPersists(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	bill, _, err := svc.CreateBill(ctx, lunchParams(dateFromToday(0)))
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}
	if bill.Total != 35.40 {
		t.Errorf("Total = %v, want 35.40", bill.Total)
	}

	got, err := svc.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("GetBill() error = %v", err)
	}
	if got.Title != "Lunch" || got.Status != models.StatusPartial {
		t.Errorf("persisted bill = %q/%q, want Lunch/partial", got.Title, got.Status)
	}
}

func TestCreateBillRejectsInvalid(t *testing.T) {
	svc, _ := newTestService(t)

	params := lunchParams(dateFromToday(0))
	params.Items = nil
	if _, _, err := svc.CreateBill(context.Background(), params); !errors.Is(err, models.ErrNoItems) {
		t.Errorf("CreateBill() error = %v, want ErrNoItems", err)
	}
}

func TestListBillsFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.CreateBill(ctx, lunchParams(dateFromToday(0))); err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}
	dinner := lunchParams(dateFromToday(1))
	dinner.Title = "Team Dinner"
	bill, _, err := svc.CreateBill(ctx, dinner)
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}
	if _, err := svc.SettleBill(ctx, bill.ID); err != nil {
		t.Fatalf("SettleBill() error = %v", err)
	}

	byStatus, err := svc.ListBills(ctx, ListFilter{Status: models.StatusSettled})
	if err != nil {
		t.Fatalf("ListBills() error = %v", err)
	}
	if len(byStatus) != 1 || byStatus[0].Title != "Team Dinner" {
		t.Errorf("status filter returned %d bills, want the settled dinner", len(byStatus))
	}

	byQuery, err := svc.ListBills(ctx, ListFilter{Query: "dinner"})
	if err != nil {
		t.Fatalf("ListBills() error = %v", err)
	}
	if len(byQuery) != 1 || byQuery[0].Title != "Team Dinner" {
		t.Errorf("query filter returned %d bills, want the dinner", len(byQuery))
	}

	all, err := svc.ListBills(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("ListBills() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("unfiltered list returned %d bills, want 2", len(all))
	}
}

func TestSettleSharePersistsAndNotifies(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	bill, _, err := svc.CreateBill(ctx, lunchParams(dateFromToday(0)))
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}

	updated, err := svc.SettleShare(ctx, bill.ID, "alex")
	if err != nil {
		t.Fatalf("SettleShare() error = %v", err)
	}
	if updated.Status != models.StatusSettled {
		t.Errorf("Status = %q, want settled once the last share clears", updated.Status)
	}
	if notifier.last() != "Your share is marked as paid" {
		t.Errorf("notification = %q, want share-paid message", notifier.last())
	}

	// The mutation must survive a reload.
	got, err := svc.GetBill(ctx, bill.ID)
	if err != nil {
		t.Fatalf("GetBill() error = %v", err)
	}
	alex := got.Participant("alex")
	if alex == nil || !alex.Settled() {
		t.Error("alex's settlement did not persist")
	}
}

func TestSettleShareSilentNoOps(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	// Unknown bill: no error, no bill, no notification.
	bill, err := svc.SettleShare(ctx, "no-such-bill", "alex")
	if err != nil || bill != nil {
		t.Errorf("SettleShare(unknown bill) = (%v, %v), want (nil, nil)", bill, err)
	}

	created, _, err := svc.CreateBill(ctx, lunchParams(dateFromToday(0)))
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}

	// Unknown participant: bill returned unchanged, no notification.
	got, err := svc.SettleShare(ctx, created.ID, "stranger")
	if err != nil {
		t.Fatalf("SettleShare(unknown user) error = %v", err)
	}
	if got.Status != models.StatusPartial {
		t.Errorf("Status = %q, want unchanged partial", got.Status)
	}
	if len(notifier.messages) != 0 {
		t.Errorf("notifications = %v, want none for no-ops", notifier.messages)
	}
}

func TestSettleBillRejectsPast(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	bill, _, err := svc.CreateBill(ctx, lunchParams(dateFromToday(-3)))
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}

	if _, err := svc.SettleBill(ctx, bill.ID); !errors.Is(err, ErrBillInPast) {
		t.Errorf("SettleBill(past) error = %v, want ErrBillInPast", err)
	}
	if err := svc.DeleteBill(ctx, bill.ID); !errors.Is(err, ErrBillInPast) {
		t.Errorf("DeleteBill(past) error = %v, want ErrBillInPast", err)
	}
	if len(notifier.messages) != 0 {
		t.Errorf("notifications = %v, want none for rejected mutations", notifier.messages)
	}
}

func TestDeleteBill(t *testing.T) {
	svc, notifier := newTestService(t)
	ctx := context.Background()

	bill, _, err := svc.CreateBill(ctx, lunchParams(dateFromToday(1)))
	if err != nil {
		t.Fatalf("CreateBill() error = %v", err)
	}
	if err := svc.DeleteBill(ctx, bill.ID); err != nil {
		t.Fatalf("DeleteBill() error = %v", err)
	}
	if notifier.last() != "Bill deleted" {
		t.Errorf("notification = %q, want deletion message", notifier.last())
	}
	if _, err := svc.GetBill(ctx, bill.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetBill() after delete error = %v, want ErrNotFound", err)
	}
}

func TestSendReminder(t *testing.T) {
	svc, notifier := newTestService(t)

	svc.SendReminder(context.Background(), "any-bill", "alex")
	if notifier.last() != "Reminder sent!" {
		t.Errorf("notification = %q, want reminder confirmation", notifier.last())
	}
}

func TestDashboard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		params := lunchParams(dateFromToday(i))
		if _, _, err := svc.CreateBill(ctx, params); err != nil {
			t.Fatalf("CreateBill() error = %v", err)
		}
	}

	dash, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}
	if len(dash.Recent) != 5 {
		t.Errorf("len(Recent) = %d, want 5", len(dash.Recent))
	}
	// Every bill is fronted by the current user with alex owing 17.70, so the
	// edges aggregate into one.
	if len(dash.Balances) != 1 {
		t.Fatalf("len(Balances) = %d, want 1", len(dash.Balances))
	}
	wantOwed := 7 * 17.70
	if dash.Summary.OwedToYou != wantOwed {
		t.Errorf("OwedToYou = %v, want %v", dash.Summary.OwedToYou, wantOwed)
	}
	if dash.Summary.YouOwe != 0 {
		t.Errorf("YouOwe = %v, want 0", dash.Summary.YouOwe)
	}
}
