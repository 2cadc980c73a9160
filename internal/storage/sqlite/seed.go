package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/tonyh/billdivide/internal/models"
)

// seed populates a fresh database with the demo ledger so the app has
// something to show on first launch. It is a no-op once any bill exists.
// Seeding failures are logged, not fatal: an empty ledger still works.
func (s *SQLiteStore) seed() {
	ctx := context.Background()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM bills").Scan(&count); err != nil {
		slog.Warn("failed to check for existing bills, skipping seed", "error", err)
		return
	}
	if count > 0 {
		return
	}

	slog.Info("seeding demo data")
	for _, bill := range demoBills() {
		if err := s.CreateBill(ctx, bill); err != nil {
			slog.Warn("failed to seed demo bill", "title", bill.Title, "error", err)
		}
	}
	if err := s.SavePreferences(ctx, models.DefaultPreferences()); err != nil {
		slog.Warn("failed to seed preferences", "error", err)
	}
	if err := s.SavePaymentHandles(ctx, models.DefaultPaymentHandles()); err != nil {
		slog.Warn("failed to seed payment handles", "error", err)
	}
}

func demoBills() []*models.Bill {
	daysAgo := func(n int) string {
		return time.Now().AddDate(0, 0, -n).Format("2006-01-02")
	}
	now := time.Now().Unix()

	return []*models.Bill{
		{
			ID:         "b1",
			Title:      "Dinner at Mario's",
			Date:       daysAgo(2),
			TaxPercent: 8.5,
			TipPercent: 18,
			PayerID:    models.CurrentUserID,
			Total:      86.40,
			Status:     models.StatusPartial,
			Notes:      "Tax: 8.5%, Tip: 18%",
			CreatedAt:  now,
			Participants: []models.Participant{
				{UserID: models.CurrentUserID, Name: "You", AssessedShare: 46.40, Paid: true},
				{UserID: "p2", Name: "Alex", AssessedShare: 20},
				{UserID: "p3", Name: "Sam", AssessedShare: 20},
			},
		},
		{
			ID:        "b2",
			Title:     "Rideshare to airport",
			Date:      daysAgo(5),
			PayerID:   models.CurrentUserID,
			Total:     52,
			Status:    models.StatusSettled,
			CreatedAt: now,
			Participants: []models.Participant{
				{UserID: models.CurrentUserID, Name: "You", AssessedShare: 26, Paid: true},
				{UserID: "p4", Name: "Jamie", AssessedShare: 26, Paid: true},
			},
		},
	}
}
