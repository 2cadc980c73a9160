// Package calculator implements the bill engine: per-person allocation of
// item costs and tax/tip, the settlement state machine, and the net balance
// aggregation across the bill ledger.
//
// Every function here is pure and synchronous; mutations are applied to the
// bill passed in, and persistence is the caller's concern.
package calculator

import (
	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/money"
)

// PersonShare is one participant's computed breakdown for a single bill.
type PersonShare struct {
	UserID        string  `json:"id"`
	Name          string  `json:"name"`
	ItemsSubtotal float64 `json:"itemsSubtotal"`
	Tax           float64 `json:"tax"`
	Tip           float64 `json:"tip"`
	Total         float64 `json:"total"`
}

// Breakdown is the per-participant financial breakdown of a bill.
type Breakdown struct {
	People []PersonShare `json:"people"`
}

// GrandTotal returns the sum of all per-person totals, rounded to cents.
func (b Breakdown) GrandTotal() float64 {
	var sum float64
	for _, p := range b.People {
		sum += p.Total
	}
	return money.Round2(sum)
}

// Person returns the share for the given user ID, or nil.
func (b Breakdown) Person(userID string) *PersonShare {
	for i := range b.People {
		if b.People[i].UserID == userID {
			return &b.People[i]
		}
	}
	return nil
}

// ComputeBreakdown converts a bill's items and tax/tip percentages into a
// per-participant breakdown, in participant order.
//
// Each item's price is split equally among the participants assigned to it;
// an item with no assignees contributes to nobody. Tax and tip are allocated
// proportionally to each participant's item subtotal, so a participant with
// no items pays no tax or tip even when the percentages are positive.
//
// Each field is rounded to cents independently, half away from zero, with no
// reconciliation step: the sum of per-person totals may drift from a
// separately rounded grand total by up to a cent per participant.
func ComputeBreakdown(b *models.Bill) Breakdown {
	subtotals := make(map[string]float64, len(b.Participants))
	for _, p := range b.Participants {
		subtotals[p.UserID] = 0
	}

	for _, it := range b.Items {
		if len(it.Participants) == 0 {
			continue
		}
		perPerson := it.Price / float64(len(it.Participants))
		for _, id := range it.Participants {
			// Assignments referencing unknown participants are ignored.
			if _, ok := subtotals[id]; ok {
				subtotals[id] += perPerson
			}
		}
	}

	people := make([]PersonShare, 0, len(b.Participants))
	for _, p := range b.Participants {
		sub := subtotals[p.UserID]
		tax := sub * b.TaxPercent / 100
		tip := sub * b.TipPercent / 100
		people = append(people, PersonShare{
			UserID:        p.UserID,
			Name:          p.Name,
			ItemsSubtotal: money.Round2(sub),
			Tax:           money.Round2(tax),
			Tip:           money.Round2(tip),
			Total:         money.Round2(sub + tax + tip),
		})
	}
	return Breakdown{People: people}
}
