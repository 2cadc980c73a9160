package calculator

import (
	"testing"

	"github.com/tonyh/billdivide/internal/models"
)

// settleBill builds a bill where morgan fronted payment and "me" still owes
// 9.20, the settle-one scenario.
func settleBill() *models.Bill {
	return &models.Bill{
		ID:      "b1",
		PayerID: "morgan",
		Status:  models.StatusPartial,
		Participants: []models.Participant{
			{UserID: "morgan", Name: "Morgan", AssessedShare: 6.90, Paid: true},
			{UserID: "me", Name: "You", AssessedShare: 9.20},
		},
	}
}

func TestSettleShare(t *testing.T) {
	b := settleBill()

	if changed := SettleShare(b, "me"); !changed {
		t.Fatal("expected settle to report a change")
	}

	me := b.Participant("me")
	if me.Outstanding() != 0 {
		t.Errorf("outstanding after settle = %v, want 0", me.Outstanding())
	}
	if me.SettledAt == nil {
		t.Error("expected SettledAt to be stamped")
	}
	if me.AssessedShare != 9.20 {
		t.Errorf("assessed share mutated to %v, want 9.20 preserved", me.AssessedShare)
	}
	// Morgan was the only other participant, so the bill is now settled.
	if b.Status != models.StatusSettled {
		t.Errorf("status = %s, want settled", b.Status)
	}
}

func TestSettleShareIdempotent(t *testing.T) {
	b := settleBill()
	SettleShare(b, "me")
	stamp := *b.Participant("me").SettledAt

	if changed := SettleShare(b, "me"); changed {
		t.Error("second settle reported a change")
	}
	if got := *b.Participant("me").SettledAt; got != stamp {
		t.Errorf("second settle moved the timestamp: %d -> %d", stamp, got)
	}
	if b.Status != models.StatusSettled {
		t.Errorf("status = %s, want settled", b.Status)
	}
}

func TestSettleShareUnknownUserIsNoOp(t *testing.T) {
	b := settleBill()
	if changed := SettleShare(b, "nobody"); changed {
		t.Error("settling an unknown participant reported a change")
	}
	if b.Status != models.StatusPartial {
		t.Errorf("status = %s, want partial untouched", b.Status)
	}
}

func TestSettleShareRemainsPartialWithOtherDebtors(t *testing.T) {
	b := settleBill()
	b.Participants = append(b.Participants, models.Participant{
		UserID: "alex", Name: "Alex", AssessedShare: 5,
	})

	SettleShare(b, "me")
	if b.Status != models.StatusPartial {
		t.Errorf("status = %s, want partial while alex still owes", b.Status)
	}
}

func TestSettleAll(t *testing.T) {
	b := settleBill()
	b.Participants = append(b.Participants, models.Participant{
		UserID: "alex", Name: "Alex", AssessedShare: 5,
	})

	SettleAll(b)

	if b.Status != models.StatusSettled {
		t.Errorf("status = %s, want settled", b.Status)
	}
	for _, p := range b.Participants {
		if !p.Paid {
			t.Errorf("participant %s not marked paid", p.UserID)
		}
		if p.Outstanding() != 0 {
			t.Errorf("participant %s outstanding = %v, want 0", p.UserID, p.Outstanding())
		}
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name string
		bill *models.Bill
		want models.Status
	}{
		{
			name: "no participants",
			bill: &models.Bill{},
			want: models.StatusPending,
		},
		{
			name: "no payer and nothing paid",
			bill: &models.Bill{Participants: []models.Participant{
				{UserID: "me", AssessedShare: 10},
				{UserID: "alex", AssessedShare: 10},
			}},
			want: models.StatusPending,
		},
		{
			name: "payer designated with outstanding shares",
			bill: &models.Bill{PayerID: "me", Participants: []models.Participant{
				{UserID: "me", AssessedShare: 10, Paid: true},
				{UserID: "alex", AssessedShare: 10},
			}},
			want: models.StatusPartial,
		},
		{
			name: "everyone clear",
			bill: &models.Bill{PayerID: "me", Participants: []models.Participant{
				{UserID: "me", AssessedShare: 10, Paid: true},
				{UserID: "alex", AssessedShare: 10, Paid: true},
			}},
			want: models.StatusSettled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.bill); got != tt.want {
				t.Errorf("DeriveStatus = %s, want %s", got, tt.want)
			}
		})
	}
}
