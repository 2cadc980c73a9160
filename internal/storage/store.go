// Package storage defines the persistence gateway for the bill ledger.
package storage

import (
	"context"
	"errors"

	"github.com/tonyh/billdivide/internal/models"
)

// ErrNotFound is returned when the requested record does not exist. Callers
// that follow the lenient UI conventions treat it as a silent no-op.
var ErrNotFound = errors.New("record not found")

// Store is the interface the service layer persists through. Saving is
// best-effort, overwrite semantics: the single writer mutates in memory and
// writes the result through with no partial updates.
type Store interface {
	// CreateBill persists a new bill with all items and participants.
	CreateBill(ctx context.Context, bill *models.Bill) error

	// GetBill retrieves a bill by ID, or ErrNotFound.
	GetBill(ctx context.Context, billID string) (*models.Bill, error)

	// ListBills returns all bills, most recent date first.
	ListBills(ctx context.Context) ([]*models.Bill, error)

	// UpdateBill overwrites a bill's settlement state (participants and
	// status). The itemization is a frozen historical record and is not
	// touched. Returns ErrNotFound for an unknown bill.
	UpdateBill(ctx context.Context, bill *models.Bill) error

	// DeleteBill removes a bill and its contribution to all derived
	// figures. Returns ErrNotFound for an unknown bill.
	DeleteBill(ctx context.Context, billID string) error

	// DeleteAllBills clears the ledger. Demo-only reset operation.
	DeleteAllBills(ctx context.Context) error

	// Preferences loads display settings, falling back to defaults when
	// nothing usable is stored.
	Preferences(ctx context.Context) (*models.Preferences, error)
	SavePreferences(ctx context.Context, prefs *models.Preferences) error

	// PaymentHandles loads the user's payback handles.
	PaymentHandles(ctx context.Context) ([]models.PaymentHandle, error)
	SavePaymentHandles(ctx context.Context, handles []models.PaymentHandle) error

	// User accounts for the demo login flow.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
