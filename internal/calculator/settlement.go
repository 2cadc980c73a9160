package calculator

import (
	"time"

	"github.com/tonyh/billdivide/internal/models"
)

// DeriveStatus recomputes a bill's settlement status from its participants:
//
//   - settled: every participant has nothing outstanding
//   - partial: a payer is designated but shares remain outstanding
//   - pending: nobody has paid and no payer is designated
func DeriveStatus(b *models.Bill) models.Status {
	if len(b.Participants) == 0 {
		return models.StatusPending
	}

	hasPayer := b.PayerID != ""
	allClear := true
	for i := range b.Participants {
		if b.Participants[i].Paid {
			hasPayer = true
		}
		if b.Participants[i].Outstanding() > 0 {
			allClear = false
		}
	}

	switch {
	case allClear && hasPayer:
		return models.StatusSettled
	case hasPayer:
		return models.StatusPartial
	default:
		return models.StatusPending
	}
}

// SettleShare clears one participant's outstanding share and recomputes the
// bill status. It reports whether the bill changed.
//
// The operation is idempotent: settling an already-settled share is a no-op.
// An unknown user ID is a silent no-op as well, matching the lenient
// conventions of the surrounding UI.
func SettleShare(b *models.Bill, userID string) bool {
	p := b.Participant(userID)
	if p == nil || p.Settled() {
		return false
	}
	now := time.Now().Unix()
	p.SettledAt = &now
	p.Paid = true
	b.Status = DeriveStatus(b)
	return true
}

// SettleAll marks every participant paid and the bill settled,
// unconditionally and regardless of individual shares. There is no reverse
// transition.
func SettleAll(b *models.Bill) {
	for i := range b.Participants {
		b.Participants[i].Paid = true
	}
	b.Status = models.StatusSettled
}
