package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tonyh/billdivide/internal/models"
)

// Preferences loads the stored display settings. Unreadable or missing
// settings fall back to the built-in defaults rather than failing: losing a
// theme choice is preferable to blocking the app.
func (s *SQLiteStore) Preferences(ctx context.Context) (*models.Preferences, error) {
	prefs := &models.Preferences{}
	var notifications int
	err := s.db.QueryRowContext(ctx,
		"SELECT currency, theme, notifications FROM preferences WHERE id = 1",
	).Scan(&prefs.Currency, &prefs.Theme, &notifications)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultPreferences(), nil
	}
	if err != nil {
		slog.Warn("failed to load preferences, using defaults", "error", err)
		return models.DefaultPreferences(), nil
	}
	prefs.Notifications = notifications != 0
	return prefs, nil
}

// SavePreferences upserts the single preferences row.
func (s *SQLiteStore) SavePreferences(ctx context.Context, prefs *models.Preferences) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO preferences (id, currency, theme, notifications) VALUES (1, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET currency = excluded.currency,
		   theme = excluded.theme, notifications = excluded.notifications`,
		prefs.Currency, prefs.Theme, boolToInt(prefs.Notifications),
	)
	if err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}
	return nil
}

// PaymentHandles loads the user's payback handles in stored order.
func (s *SQLiteStore) PaymentHandles(ctx context.Context) ([]models.PaymentHandle, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT type, value FROM payment_handles ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to get payment handles: %w", err)
	}
	defer rows.Close()

	var handles []models.PaymentHandle
	for rows.Next() {
		var h models.PaymentHandle
		if err := rows.Scan(&h.Type, &h.Value); err != nil {
			return nil, fmt.Errorf("failed to scan payment handle: %w", err)
		}
		handles = append(handles, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment handles: %w", err)
	}
	return handles, nil
}

// SavePaymentHandles replaces the stored handle list.
func (s *SQLiteStore) SavePaymentHandles(ctx context.Context, handles []models.PaymentHandle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM payment_handles"); err != nil {
		return fmt.Errorf("failed to clear payment handles: %w", err)
	}
	for i, h := range handles {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO payment_handles (position, type, value) VALUES (?, ?, ?)",
			i, h.Type, h.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payment handle: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
