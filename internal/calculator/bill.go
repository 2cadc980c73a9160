package calculator

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/money"
)

// PersonRef identifies a participant in a bill creation request.
type PersonRef struct {
	UserID string
	Name   string
}

// BillParams is the input to the bill creation flow. Numeric fields are
// assumed to have gone through the lenient money parsers already.
type BillParams struct {
	Title      string
	Date       string
	Notes      string
	TaxPercent float64
	TipPercent float64
	PayerID    string
	People     []PersonRef
	Items      []models.Item
}

// NewBill builds a fully-populated bill from creation input: it assigns IDs,
// designates the payer, runs the allocation engine to assess each
// participant's share, derives the initial status, and validates the result.
//
// The bill is created atomically; on any validation failure nothing is
// produced. The returned breakdown is the same one used to assess shares.
func NewBill(p BillParams) (*models.Bill, Breakdown, error) {
	b := &models.Bill{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(p.Title),
		Date:       strings.TrimSpace(p.Date),
		Notes:      strings.TrimSpace(p.Notes),
		TaxPercent: p.TaxPercent,
		TipPercent: p.TipPercent,
		CreatedAt:  time.Now().Unix(),
	}
	if b.Date == "" {
		b.Date = time.Now().Format("2006-01-02")
	}

	if len(p.Items) == 0 {
		return nil, Breakdown{}, models.ErrNoItems
	}
	if len(p.People) == 0 {
		return nil, Breakdown{}, models.ErrNoParticipants
	}

	b.Items = make([]models.Item, len(p.Items))
	for i, it := range p.Items {
		b.Items[i] = models.Item{
			ID:           it.ID,
			Name:         strings.TrimSpace(it.Name),
			Price:        it.Price,
			Participants: append([]string(nil), it.Participants...),
		}
		if b.Items[i].ID == "" {
			b.Items[i].ID = uuid.New().String()
		}
	}

	// Exactly one participant fronts the whole bill; default to the first
	// when the request does not designate one.
	b.PayerID = p.PayerID
	if b.PayerID == "" {
		b.PayerID = p.People[0].UserID
	}
	b.Participants = make([]models.Participant, len(p.People))
	for i, person := range p.People {
		b.Participants[i] = models.Participant{
			UserID: person.UserID,
			Name:   strings.TrimSpace(person.Name),
			Paid:   person.UserID == b.PayerID,
		}
	}

	breakdown := ComputeBreakdown(b)
	var total float64
	for i := range b.Participants {
		share := breakdown.People[i].Total
		b.Participants[i].AssessedShare = share
		total += share
	}
	b.Total = money.Round2(total)
	b.Status = DeriveStatus(b)

	if err := b.Validate(); err != nil {
		return nil, Breakdown{}, err
	}
	return b, breakdown, nil
}
