// Package auth implements the demo-grade login flow: bcrypt-hashed local
// credentials and stateless JWT sessions.
//
// There is deliberately no email verification, account recovery, or token
// revocation; this is a convenience login for a single-user tool, kept in
// the same shape a real deployment would use so the rest of the stack does
// not need to care.
package auth

import (
	"context"
	"errors"

	"github.com/tonyh/billdivide/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrEmailExists        = errors.New("email already registered")
)

// Authenticator abstracts the credential check so the service layer is
// independent of the mechanism.
type Authenticator interface {
	// Register creates a new account. The credential format depends on the
	// implementation; for passwords it is the plaintext password.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate verifies the credential and returns the matching user.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)
}

// UserStorage is the slice of the store the authenticator needs.
type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
