package calculator

import (
	"errors"
	"math"
	"testing"

	"github.com/tonyh/billdivide/internal/models"
)

func validParams() BillParams {
	return BillParams{
		Title:      "Dinner",
		Date:       "2026-08-27",
		TaxPercent: 8,
		TipPercent: 10,
		PayerID:    "me",
		People: []PersonRef{
			{UserID: "me", Name: "You"},
			{UserID: "alex", Name: "Alex"},
		},
		Items: []models.Item{
			{Name: "Pizza", Price: 30, Participants: []string{"me", "alex"}},
		},
	}
}

func TestNewBill(t *testing.T) {
	bill, bd, err := NewBill(validParams())
	if err != nil {
		t.Fatalf("NewBill failed: %v", err)
	}

	if bill.ID == "" {
		t.Error("expected generated bill ID")
	}
	if bill.CreatedAt == 0 {
		t.Error("expected CreatedAt to be set")
	}
	if bill.Status != models.StatusPartial {
		t.Errorf("status = %s, want partial for a bill with a payer", bill.Status)
	}

	payer := bill.Participant("me")
	if payer == nil || !payer.Paid {
		t.Error("expected designated payer to be marked paid")
	}

	// 30 * 1.18 split evenly: 17.70 each, total 35.40.
	var shareSum float64
	for _, p := range bill.Participants {
		shareSum += p.AssessedShare
	}
	if math.Abs(bill.Total-35.40) > 0.001 {
		t.Errorf("total = %v, want 35.40", bill.Total)
	}
	if math.Abs(shareSum-bill.Total) > 0.005*float64(len(bill.Participants)+1) {
		t.Errorf("sum of shares %v drifts from total %v beyond tolerance", shareSum, bill.Total)
	}
	if math.Abs(bd.GrandTotal()-bill.Total) > 0.001 {
		t.Errorf("breakdown grand total %v != bill total %v", bd.GrandTotal(), bill.Total)
	}
}

func TestNewBillDefaultsPayerToFirstPerson(t *testing.T) {
	p := validParams()
	p.PayerID = ""
	bill, _, err := NewBill(p)
	if err != nil {
		t.Fatalf("NewBill failed: %v", err)
	}
	if bill.PayerID != "me" {
		t.Errorf("payer = %s, want first person", bill.PayerID)
	}
}

func TestNewBillValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BillParams)
		wantErr error
	}{
		{
			name:    "empty title",
			mutate:  func(p *BillParams) { p.Title = "  " },
			wantErr: models.ErrEmptyTitle,
		},
		{
			name:    "no items",
			mutate:  func(p *BillParams) { p.Items = nil },
			wantErr: models.ErrNoItems,
		},
		{
			name:    "no participants",
			mutate:  func(p *BillParams) { p.People = nil },
			wantErr: models.ErrNoParticipants,
		},
		{
			name: "non-positive price",
			mutate: func(p *BillParams) {
				p.Items[0].Price = 0
			},
			wantErr: models.ErrInvalidPrice,
		},
		{
			name: "missing current user",
			mutate: func(p *BillParams) {
				p.People = []PersonRef{{UserID: "alex", Name: "Alex"}}
				p.PayerID = "alex"
				p.Items[0].Participants = []string{"alex"}
			},
			wantErr: models.ErrMissingSelf,
		},
		{
			name: "payer outside participants",
			mutate: func(p *BillParams) {
				p.PayerID = "stranger"
			},
			wantErr: models.ErrPayerNotParticipant,
		},
		{
			name: "duplicate participant",
			mutate: func(p *BillParams) {
				p.People = append(p.People, PersonRef{UserID: "alex", Name: "Alex Again"})
			},
			wantErr: models.ErrDuplicateParticipant,
		},
		{
			name: "negative tax",
			mutate: func(p *BillParams) {
				p.TaxPercent = -1
			},
			wantErr: models.ErrNegativePercent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, _, err := NewBill(p)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewBill error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
