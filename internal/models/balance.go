package models

// Balance is a derived debt edge: Amount is what FromUserID owes ToUserID,
// aggregated across all unsettled bills where ToUserID was the payer.
// Balances are computed on demand and never persisted.
type Balance struct {
	FromUserID string  `json:"fromUserId"`
	ToUserID   string  `json:"toUserId"`
	FromName   string  `json:"fromName"`
	ToName     string  `json:"toName"`
	Amount     float64 `json:"amount"`
}
