package services

import (
	"errors"
	"fmt"

	"inkwell/app/auth"
	"inkwell/app/repositories"
)

// ErrInvalidCredentials is returned for both an unknown username and a
// wrong password, so callers cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("incorrect username or password")

// AuthService handles the login flow: credential verification and token
// issuance.
type AuthService struct {
	users  repositories.UserRepository
	tokens *auth.TokenService
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository, tokens *auth.TokenService) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Login verifies the credentials and returns a signed access token bound
// to the user's id.
func (s *AuthService) Login(username, password string) (string, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to look up user: %w", err)
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID)
}
