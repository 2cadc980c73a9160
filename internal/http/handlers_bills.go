package http

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/tonyh/billdivide/internal/calculator"
	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/money"
	"github.com/tonyh/billdivide/internal/service"
)

// lenientNumber accepts a JSON string or number and carries it as text for
// the lenient money parsers. Anything else coerces to the empty string,
// which parses to 0.
type lenientNumber string

func (n *lenientNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*n = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = ""
			return nil
		}
		*n = lenientNumber(s)
		return nil
	}
	*n = lenientNumber(data)
	return nil
}

type personRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type itemRequest struct {
	Name         string        `json:"name"`
	Price        lenientNumber `json:"price"`
	Participants []string      `json:"participants"`
}

type createBillRequest struct {
	Title      string          `json:"title"`
	Date       string          `json:"date"`
	Notes      string          `json:"notes"`
	TaxPercent lenientNumber   `json:"taxPercent"`
	TipPercent lenientNumber   `json:"tipPercent"`
	PayerID    string          `json:"payerId"`
	People     []personRequest `json:"people"`
	Items      []itemRequest   `json:"items"`
}

func (req *createBillRequest) toParams() calculator.BillParams {
	params := calculator.BillParams{
		Title:      req.Title,
		Date:       req.Date,
		Notes:      req.Notes,
		TaxPercent: money.ParsePercent(string(req.TaxPercent)),
		TipPercent: money.ParsePercent(string(req.TipPercent)),
		PayerID:    req.PayerID,
	}
	for _, p := range req.People {
		params.People = append(params.People, calculator.PersonRef{UserID: p.UserID, Name: p.Name})
	}
	for _, it := range req.Items {
		params.Items = append(params.Items, models.Item{
			Name:         it.Name,
			Price:        money.ParseAmount(string(it.Price)),
			Participants: it.Participants,
		})
	}
	return params
}

type participantResponse struct {
	UserID         string  `json:"userId"`
	Name           string  `json:"name"`
	Share          float64 `json:"share"`
	ShareFormatted string  `json:"shareFormatted"`
	OriginalShare  float64 `json:"originalShare"`
	Paid           bool    `json:"paid"`
	SettledAt      *int64  `json:"settledAt,omitempty"`
}

type billResponse struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Date           string                `json:"date"`
	Items          []models.Item         `json:"items"`
	TaxPercent     float64               `json:"taxPercent"`
	TipPercent     float64               `json:"tipPercent"`
	PayerID        string                `json:"payerId"`
	Participants   []participantResponse `json:"participants"`
	Total          float64               `json:"total"`
	TotalFormatted string                `json:"totalFormatted"`
	Status         models.Status         `json:"status"`
	Notes          string                `json:"notes,omitempty"`
	CreatedAt      int64                 `json:"createdAt"`
}

// toBillResponse renders a bill for the API: each participant's live share
// (zero once settled) alongside the immutable assessed share, with amounts
// formatted in the user's display currency.
func toBillResponse(b *models.Bill, currency string) billResponse {
	resp := billResponse{
		ID:             b.ID,
		Title:          b.Title,
		Date:           b.Date,
		Items:          b.Items,
		TaxPercent:     b.TaxPercent,
		TipPercent:     b.TipPercent,
		PayerID:        b.PayerID,
		Total:          b.Total,
		TotalFormatted: money.Format(b.Total, currency),
		Status:         b.Status,
		Notes:          b.Notes,
		CreatedAt:      b.CreatedAt,
	}
	for i := range b.Participants {
		p := &b.Participants[i]
		resp.Participants = append(resp.Participants, participantResponse{
			UserID:         p.UserID,
			Name:           p.Name,
			Share:          p.Outstanding(),
			ShareFormatted: money.Format(p.Outstanding(), currency),
			OriginalShare:  p.AssessedShare,
			Paid:           p.Paid,
			SettledAt:      p.SettledAt,
		})
	}
	return resp
}

func (s *Server) currency(r *http.Request) string {
	prefs, err := s.store.Preferences(r.Context())
	if err != nil {
		return "USD"
	}
	return prefs.Currency
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	filter := service.ListFilter{
		Status: models.Status(r.URL.Query().Get("status")),
		Query:  r.URL.Query().Get("q"),
	}
	bills, err := s.bills.ListBills(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	currency := s.currency(r)
	resp := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		resp = append(resp, toBillResponse(b, currency))
	}
	writeJSON(w, http.StatusOK, map[string]any{"bills": resp})
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req createBillRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	bill, breakdown, err := s.bills.CreateBill(r.Context(), req.toParams())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"bill":      toBillResponse(bill, s.currency(r)),
		"breakdown": breakdown,
	})
}

func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.bills.GetBill(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"bill":      toBillResponse(bill, s.currency(r)),
		"breakdown": calculator.ComputeBreakdown(bill),
	})
}

type settleRequest struct {
	UserID string `json:"userId"`
}

func (s *Server) handleSettleShare(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	_ = decodeJSON(r, &req) // missing or malformed body settles own share
	if req.UserID == "" {
		req.UserID = models.CurrentUserID
	}

	bill, err := s.bills.SettleShare(r.Context(), r.PathValue("id"), req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	if bill == nil {
		// Unknown bill is a silent no-op.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bill": toBillResponse(bill, s.currency(r))})
}

func (s *Server) handleSettleBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.bills.SettleBill(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bill": toBillResponse(bill, s.currency(r))})
}

func (s *Server) handleRemind(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	_ = decodeJSON(r, &req)

	s.bills.SendReminder(r.Context(), r.PathValue("id"), req.UserID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Reminder sent!"})
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.bills.DeleteBill(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAllBills(w http.ResponseWriter, r *http.Request) {
	if err := s.bills.DeleteAllBills(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
