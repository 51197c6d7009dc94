package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"inkwell/app/auth"
	"inkwell/app/models"
	"inkwell/app/repositories"
)

// ContextKey is a custom type to avoid context key collisions.
type ContextKey string

// UserKey is where the authenticated user is stored in the request context.
const UserKey ContextKey = "user"

// RequireAdmin authenticates the bearer token and authorizes the admin
// role before passing the request on. Missing, invalid, or expired tokens
// get 401; a valid token for a non-admin user gets 403.
func RequireAdmin(tokens *auth.TokenService, users repositories.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				sendError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
				return
			}

			user, err := auth.ResolveUser(tokens, users, strings.TrimSpace(parts[1]))
			if err != nil {
				if errors.Is(err, auth.ErrUnauthenticated) {
					sendError(w, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
					return
				}
				log.Printf("auth lookup error: %v", err)
				sendError(w, http.StatusInternalServerError, "internal error")
				return
			}

			if _, err := auth.RequireAdmin(user); err != nil {
				sendError(w, http.StatusForbidden, auth.ErrForbidden.Error())
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user stored by RequireAdmin.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(UserKey).(*models.User)
	return user, ok
}
