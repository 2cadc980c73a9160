package service

import (
	"context"
	"fmt"

	"github.com/tonyh/billdivide/internal/auth"
	"github.com/tonyh/billdivide/internal/models"
)

// AuthService couples the authenticator with token issuance.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
	users         auth.UserStorage
}

// NewAuthService creates an auth service.
func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager, users auth.UserStorage) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens, users: users}
}

// Register creates an account and returns the user with a fresh session
// token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*models.User, string, error) {
	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user with a fresh session
// token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return user, token, nil
}

// CurrentUser loads the account behind a validated session.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.GetUserByID(ctx, userID)
}
