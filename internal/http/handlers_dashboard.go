package http

import (
	"net/http"

	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/money"
)

type balanceResponse struct {
	models.Balance
	AmountFormatted string `json:"amountFormatted"`
}

type summaryResponse struct {
	YouOwe             float64 `json:"youOwe"`
	OwedToYou          float64 `json:"owedToYou"`
	Net                float64 `json:"net"`
	YouOweFormatted    string  `json:"youOweFormatted"`
	OwedToYouFormatted string  `json:"owedToYouFormatted"`
	NetFormatted       string  `json:"netFormatted"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.bills.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	currency := s.currency(r)
	balances := make([]balanceResponse, 0, len(dash.Balances))
	for _, b := range dash.Balances {
		balances = append(balances, balanceResponse{
			Balance:         b,
			AmountFormatted: money.Format(b.Amount, currency),
		})
	}
	recent := make([]billResponse, 0, len(dash.Recent))
	for _, b := range dash.Recent {
		recent = append(recent, toBillResponse(b, currency))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"balances": balances,
		"summary": summaryResponse{
			YouOwe:             dash.Summary.YouOwe,
			OwedToYou:          dash.Summary.OwedToYou,
			Net:                dash.Summary.Net,
			YouOweFormatted:    money.Format(dash.Summary.YouOwe, currency),
			OwedToYouFormatted: money.Format(dash.Summary.OwedToYou, currency),
			NetFormatted:       money.Format(dash.Summary.Net, currency),
		},
		"recentBills": recent,
	})
}
