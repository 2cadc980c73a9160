package models

import (
	"errors"
	"math"
	"time"
)

// CurrentUserID identifies the application's own user. It is always present
// in a bill's participant set and never removable.
const CurrentUserID = "me"

// Status is the settlement state of a bill.
type Status string

const (
	// StatusPending marks a bill with no designated payer yet.
	StatusPending Status = "pending"
	// StatusPartial marks a bill with at least one outstanding share.
	StatusPartial Status = "partial"
	// StatusSettled marks a bill where every participant has paid.
	StatusSettled Status = "settled"
)

// Validation errors surfaced when a bill is constructed from user input.
var (
	ErrEmptyTitle           = errors.New("bill title is required")
	ErrNoItems              = errors.New("at least one item is required")
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrInvalidPrice         = errors.New("item price must be positive")
	ErrNegativePercent      = errors.New("tax and tip percentages must be non-negative")
	ErrDuplicateParticipant = errors.New("participants must be unique within a bill")
	ErrMissingSelf          = errors.New("the current user must be a participant")
	ErrPayerNotParticipant  = errors.New("payer must be one of the participants")
	ErrTotalMismatch        = errors.New("bill total does not match the sum of participant shares")
)

// Item is a single line item on a bill.
//
// Participants lists the user IDs sharing this item; the item's price is
// split equally among them. An item with no assigned participants
// contributes to nobody's subtotal (an unattributed loss, preserved as-is).
type Item struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Participants []string `json:"participants"`
}

// Participant is one person's stake in a bill.
//
// AssessedShare is the share computed at bill creation and never mutated
// afterwards; the live outstanding amount is derived from the settlement
// state instead (see Outstanding).
type Participant struct {
	UserID        string  `json:"userId"`
	Name          string  `json:"name"`
	AssessedShare float64 `json:"originalShare"`
	Paid          bool    `json:"paid"`
	SettledAt     *int64  `json:"settledAt,omitempty"`
}

// Settled reports whether this participant's share has been cleared, either
// because they fronted the bill (Paid at creation), were marked paid, or
// settled their own share.
func (p *Participant) Settled() bool {
	return p.Paid || p.SettledAt != nil
}

// Outstanding returns the amount this participant still owes: zero once
// settled, the assessed share otherwise.
func (p *Participant) Outstanding() float64 {
	if p.Settled() {
		return 0
	}
	return p.AssessedShare
}

// Bill is an itemized bill shared among participants.
type Bill struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Date         string        `json:"date"` // calendar date, YYYY-MM-DD
	Items        []Item        `json:"items"`
	TaxPercent   float64       `json:"taxPercent"`
	TipPercent   float64       `json:"tipPercent"`
	PayerID      string        `json:"payerId"`
	Participants []Participant `json:"participants"`
	Total        float64       `json:"total"`
	Status       Status        `json:"status"`
	Notes        string        `json:"notes,omitempty"`
	CreatedAt    int64         `json:"createdAt"`
}

// Participant returns the participant with the given user ID, or nil.
func (b *Bill) Participant(userID string) *Participant {
	for i := range b.Participants {
		if b.Participants[i].UserID == userID {
			return &b.Participants[i]
		}
	}
	return nil
}

// Payer returns the participant who fronted payment: the first one marked
// paid, falling back to the first participant when none is. Returns nil for
// a bill with no participants.
//
// The fallback mirrors the aggregation rules downstream; new bills always
// designate a payer, so it only fires for hand-edited or legacy records.
func (b *Bill) Payer() *Participant {
	for i := range b.Participants {
		if b.Participants[i].Paid {
			return &b.Participants[i]
		}
	}
	if len(b.Participants) > 0 {
		return &b.Participants[0]
	}
	return nil
}

// IsPast reports whether the bill's date is strictly before today.
// A malformed date is treated as not past.
func (b *Bill) IsPast() bool {
	d, err := time.ParseInLocation("2006-01-02", b.Date, time.Local)
	if err != nil {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return d.Before(today)
}

// Validate enforces the structural invariants of a bill:
//
//   - non-empty title and at least one participant
//   - positive item prices and non-negative tax/tip percentages
//   - participants unique by user ID, with the current user present
//   - the payer, when designated, is one of the participants
//   - the total matches the sum of assessed shares within rounding tolerance
//
// Items may be empty on historical records; the creation flow separately
// requires at least one.
func (b *Bill) Validate() error {
	if b.Title == "" {
		return ErrEmptyTitle
	}
	if len(b.Participants) == 0 {
		return ErrNoParticipants
	}
	if b.TaxPercent < 0 || b.TipPercent < 0 {
		return ErrNegativePercent
	}
	for _, it := range b.Items {
		if it.Price <= 0 {
			return ErrInvalidPrice
		}
	}

	seen := make(map[string]bool, len(b.Participants))
	hasSelf := false
	for _, p := range b.Participants {
		if seen[p.UserID] {
			return ErrDuplicateParticipant
		}
		seen[p.UserID] = true
		if p.UserID == CurrentUserID {
			hasSelf = true
		}
	}
	if !hasSelf {
		return ErrMissingSelf
	}
	if b.PayerID != "" && !seen[b.PayerID] {
		return ErrPayerNotParticipant
	}

	var sum float64
	for _, p := range b.Participants {
		sum += p.AssessedShare
	}
	// Per-participant independent rounding may drift the sum by up to half a
	// cent per field; allow half a cent per participant plus one for the
	// rounded total itself.
	tol := 0.005 * float64(len(b.Participants)+1)
	if math.Abs(sum-b.Total) > tol+1e-9 {
		return ErrTotalMismatch
	}
	return nil
}
