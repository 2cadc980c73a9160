package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tonyh/billdivide/internal/auth"
	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/service"
	"github.com/tonyh/billdivide/internal/storage"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps domain errors to HTTP status codes and emits a JSON error
// body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrBillInPast):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailExists):
		status = http.StatusConflict
	case errors.Is(err, auth.ErrWeakPassword),
		isValidationError(err):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "error", err)
		// Do not leak internals to the client.
		writeJSON(w, status, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func isValidationError(err error) bool {
	for _, target := range []error{
		models.ErrEmptyTitle,
		models.ErrNoItems,
		models.ErrNoParticipants,
		models.ErrInvalidPrice,
		models.ErrNegativePercent,
		models.ErrDuplicateParticipant,
		models.ErrMissingSelf,
		models.ErrPayerNotParticipant,
		models.ErrTotalMismatch,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
