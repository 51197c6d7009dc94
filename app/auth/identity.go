package auth

import (
	"errors"

	"inkwell/app/models"
	"inkwell/app/repositories"
)

// ResolveUser maps a bearer token to the user it identifies. A token whose
// subject points at a deleted user fails exactly like an invalid token, so
// callers cannot probe for account existence.
func ResolveUser(tokens *TokenService, users repositories.UserRepository, token string) (*models.User, error) {
	id, err := tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := users.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return user, nil
}

// RequireAdmin passes the user through unchanged if they hold the admin
// flag, and fails with ErrForbidden otherwise. Composes with ResolveUser
// to guard admin-only operations.
func RequireAdmin(user *models.User) (*models.User, error) {
	if !user.IsAdmin {
		return nil, ErrForbidden
	}
	return user, nil
}
