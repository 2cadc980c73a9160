package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account for the demo login flow.
//
// Authentication here is demo-grade by design: a single local user, no email
// verification, no account recovery. The stored hash is still bcrypt so the
// flow exercises the same shape a real deployment would.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Email is the login identifier, unique across users.
	Email string `json:"email"`

	// DisplayName is shown in place of "You" where a name is needed.
	DisplayName string `json:"displayName"`

	// PasswordHash is the bcrypt hash of the user's password. Never
	// serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"createdAt"`
}

// NewUser builds a user with a fresh ID and creation timestamp.
func NewUser(email, displayName, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
