package models

// Preferences holds the profile screen's persisted display settings.
type Preferences struct {
	Currency      string `json:"currency"`
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

// PaymentHandle is a way the user can be paid back, e.g. a Venmo handle.
type PaymentHandle struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// DefaultPreferences returns the built-in defaults used when nothing has
// been persisted yet or the stored data is unreadable.
func DefaultPreferences() *Preferences {
	return &Preferences{Currency: "USD", Theme: "light", Notifications: true}
}

// DefaultPaymentHandles returns the sample handles seeded for the demo.
func DefaultPaymentHandles() []PaymentHandle {
	return []PaymentHandle{
		{Type: "Venmo", Value: "@your-handle"},
		{Type: "CashApp", Value: "$yourname"},
	}
}
