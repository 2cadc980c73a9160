package http

import (
	"net/http"

	"github.com/tonyh/billdivide/internal/models"
)

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.store.Preferences(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := decodeJSON(r, &prefs); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if prefs.Currency == "" {
		prefs.Currency = models.DefaultPreferences().Currency
	}
	if err := s.store.SavePreferences(r.Context(), &prefs); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &prefs)
}

func (s *Server) handleGetPaymentHandles(w http.ResponseWriter, r *http.Request) {
	handles, err := s.store.PaymentHandles(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if handles == nil {
		handles = []models.PaymentHandle{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"handles": handles})
}

func (s *Server) handlePutPaymentHandles(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Handles []models.PaymentHandle `json:"handles"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if err := s.store.SavePaymentHandles(r.Context(), req.Handles); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"handles": req.Handles})
}
