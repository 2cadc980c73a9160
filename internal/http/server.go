// Package http exposes the bill engine over a JSON API.
package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tonyh/billdivide/internal/auth"
	"github.com/tonyh/billdivide/internal/middleware"
	"github.com/tonyh/billdivide/internal/service"
	"github.com/tonyh/billdivide/internal/storage"
)

// Server holds the handler dependencies.
type Server struct {
	bills *service.BillService
	auth  *service.AuthService
	store storage.Store
	jwt   *auth.JWTManager
}

// NewServer builds the API handler with routing, auth, logging, and metrics
// wired in.
func NewServer(bills *service.BillService, authSvc *service.AuthService, store storage.Store, jwt *auth.JWTManager) http.Handler {
	s := &Server{bills: bills, auth: authSvc, store: store, jwt: jwt}

	mux := http.NewServeMux()
	protect := middleware.RequireAuth(jwt)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, protect(h))
	}

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	handle("GET /api/auth/me", s.handleMe)

	handle("GET /api/bills", s.handleListBills)
	handle("POST /api/bills", s.handleCreateBill)
	handle("GET /api/bills/{id}", s.handleGetBill)
	handle("POST /api/bills/{id}/settle", s.handleSettleShare)
	handle("POST /api/bills/{id}/settle-all", s.handleSettleBill)
	handle("POST /api/bills/{id}/remind", s.handleRemind)
	handle("DELETE /api/bills/{id}", s.handleDeleteBill)
	handle("DELETE /api/bills", s.handleDeleteAllBills)

	handle("GET /api/dashboard", s.handleDashboard)
	handle("GET /api/preferences", s.handleGetPreferences)
	handle("PUT /api/preferences", s.handlePutPreferences)
	handle("GET /api/payment-handles", s.handleGetPaymentHandles)
	handle("PUT /api/payment-handles", s.handlePutPaymentHandles)

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// OptionalAuth runs outermost so the request logger sees the user even
	// though enforcement happens per-route.
	var h http.Handler = mux
	h = middleware.Metrics(mux)(h)
	h = middleware.RequestLogger(h)
	h = middleware.OptionalAuth(jwt)(h)
	return h
}
