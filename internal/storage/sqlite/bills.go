package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tonyh/billdivide/internal/models"
	"github.com/tonyh/billdivide/internal/storage"
)

// CreateBill persists a new bill with all items and participants in one
// transaction.
func (s *SQLiteStore) CreateBill(ctx context.Context, bill *models.Bill) error {
	if bill.ID == "" {
		bill.ID = uuid.New().String()
	}
	if bill.CreatedAt == 0 {
		bill.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bills (id, title, date, tax_percent, tip_percent, payer_id, total, status, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		bill.ID, bill.Title, bill.Date, bill.TaxPercent, bill.TipPercent,
		bill.PayerID, bill.Total, string(bill.Status), bill.Notes, bill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bill: %w", err)
	}

	for i := range bill.Participants {
		p := &bill.Participants[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO participants (bill_id, user_id, name, assessed_share, paid, settled_at, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			bill.ID, p.UserID, p.Name, p.AssessedShare, boolToInt(p.Paid), p.SettledAt, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, bill_id, name, price, position) VALUES (?, ?, ?, ?, ?)",
			item.ID, bill.ID, item.Name, item.Price, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		for _, userID := range item.Participants {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO item_assignments (item_id, user_id) VALUES (?, ?)",
				item.ID, userID,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item assignment: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetBill retrieves a bill by ID, including items and participants.
func (s *SQLiteStore) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill := &models.Bill{}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, date, tax_percent, tip_percent, payer_id, total, status, notes, created_at
		 FROM bills WHERE id = ?`,
		billID,
	).Scan(&bill.ID, &bill.Title, &bill.Date, &bill.TaxPercent, &bill.TipPercent,
		&bill.PayerID, &bill.Total, &status, &bill.Notes, &bill.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	bill.Status = models.Status(status)

	if err := s.loadParticipants(ctx, bill); err != nil {
		return nil, err
	}
	if err := s.loadItems(ctx, bill); err != nil {
		return nil, err
	}
	return bill, nil
}

// ListBills returns all bills, most recent date first.
func (s *SQLiteStore) ListBills(ctx context.Context) ([]*models.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM bills ORDER BY date DESC, created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bill id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}

	bills := make([]*models.Bill, 0, len(ids))
	for _, id := range ids {
		bill, err := s.GetBill(ctx, id)
		if err != nil {
			return nil, err
		}
		bills = append(bills, bill)
	}
	return bills, nil
}

// UpdateBill overwrites the bill's settlement state: status plus each
// participant's paid flag and settlement timestamp. Items are frozen and
// never updated.
func (s *SQLiteStore) UpdateBill(ctx context.Context, bill *models.Bill) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE bills SET status = ?, notes = ? WHERE id = ?",
		string(bill.Status), bill.Notes, bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}

	for i := range bill.Participants {
		p := &bill.Participants[i]
		_, err = tx.ExecContext(ctx,
			"UPDATE participants SET paid = ?, settled_at = ? WHERE bill_id = ? AND user_id = ?",
			boolToInt(p.Paid), p.SettledAt, bill.ID, p.UserID,
		)
		if err != nil {
			return fmt.Errorf("failed to update participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteBill removes a bill; items and participants cascade.
func (s *SQLiteStore) DeleteBill(ctx context.Context, billID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM bills WHERE id = ?", billID)
	if err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteAllBills clears the ledger. Demo-only reset.
func (s *SQLiteStore) DeleteAllBills(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM bills"); err != nil {
		return fmt.Errorf("failed to delete bills: %w", err)
	}
	return nil
}

func (s *SQLiteStore) loadParticipants(ctx context.Context, bill *models.Bill) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, name, assessed_share, paid, settled_at
		 FROM participants WHERE bill_id = ? ORDER BY position`,
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Participant
		var paid int
		var settledAt sql.NullInt64
		if err := rows.Scan(&p.UserID, &p.Name, &p.AssessedShare, &paid, &settledAt); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		p.Paid = paid != 0
		if settledAt.Valid {
			v := settledAt.Int64
			p.SettledAt = &v
		}
		bill.Participants = append(bill.Participants, p)
	}
	return rows.Err()
}

func (s *SQLiteStore) loadItems(ctx context.Context, bill *models.Bill) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price FROM items WHERE bill_id = ? ORDER BY position",
		bill.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return fmt.Errorf("failed to scan item: %w", err)
		}
		bill.Items = append(bill.Items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate items: %w", err)
	}

	for i := range bill.Items {
		item := &bill.Items[i]
		assignRows, err := s.db.QueryContext(ctx,
			"SELECT user_id FROM item_assignments WHERE item_id = ? ORDER BY user_id",
			item.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get item assignments: %w", err)
		}
		for assignRows.Next() {
			var userID string
			if err := assignRows.Scan(&userID); err != nil {
				assignRows.Close()
				return fmt.Errorf("failed to scan assignment: %w", err)
			}
			item.Participants = append(item.Participants, userID)
		}
		if err := assignRows.Err(); err != nil {
			assignRows.Close()
			return fmt.Errorf("failed to iterate assignments: %w", err)
		}
		assignRows.Close()
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
