package calculator

import (
	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/money"
)

// Summary aggregates the balance edges relative to the current user.
type Summary struct {
	YouOwe    float64 `json:"youOwe"`
	OwedToYou float64 `json:"owedToYou"`
	Net       float64 `json:"net"`
}

// CalculateBalances scans the bill collection and produces one aggregated
// debt edge per distinct (debtor, payer) pair: the amount the debtor still
// owes the payer across all bills where that payer fronted payment.
//
// The payer of each bill is the first participant marked paid, falling back
// to the first participant when none is. Participants who are the payer,
// already paid, or have nothing outstanding contribute no edge, so the
// result never contains a self-loop.
//
// Same-direction debts are summed; opposite directions are NOT netted
// against each other. Bills are independent transactions and true multi-
// party debt simplification is out of scope.
func CalculateBalances(bills []*models.Bill) []models.Balance {
	type pair struct{ from, to string }
	amounts := make(map[pair]float64)
	var order []pair

	for _, b := range bills {
		payer := b.Payer()
		if payer == nil {
			continue
		}
		for i := range b.Participants {
			p := &b.Participants[i]
			if p.UserID == payer.UserID || p.Paid {
				continue
			}
			owed := p.Outstanding()
			if owed <= 0 {
				continue
			}
			k := pair{from: p.UserID, to: payer.UserID}
			if _, seen := amounts[k]; !seen {
				order = append(order, k)
			}
			amounts[k] += owed
		}
	}

	balances := make([]models.Balance, 0, len(order))
	for _, k := range order {
		balances = append(balances, models.Balance{
			FromUserID: k.from,
			ToUserID:   k.to,
			FromName:   nameFor(k.from, bills),
			ToName:     nameFor(k.to, bills),
			Amount:     money.Round2(amounts[k]),
		})
	}
	return balances
}

// Summarize reduces balance edges to the current user's aggregate position.
func Summarize(balances []models.Balance) Summary {
	var owe, owed float64
	for _, b := range balances {
		if b.FromUserID == models.CurrentUserID {
			owe += b.Amount
		}
		if b.ToUserID == models.CurrentUserID {
			owed += b.Amount
		}
	}
	return Summary{
		YouOwe:    money.Round2(owe),
		OwedToYou: money.Round2(owed),
		Net:       money.Round2(owed - owe),
	}
}

// nameFor resolves a display name by scanning the bill collection. There is
// no cross-bill identity beyond literal user ID equality.
func nameFor(userID string, bills []*models.Bill) string {
	if userID == models.CurrentUserID {
		return "You"
	}
	for _, b := range bills {
		if p := b.Participant(userID); p != nil {
			return p.Name
		}
	}
	return "Friend"
}
