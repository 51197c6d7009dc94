package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUnauthenticated covers every way a token can fail to identify a
	// user: bad signature, malformed structure, expiry, or a subject that
	// no longer resolves to an account.
	ErrUnauthenticated = errors.New("could not validate credentials")

	// ErrForbidden means the identity is valid but lacks admin privilege.
	ErrForbidden = errors.New("admin privileges required")
)

// TokenService issues and verifies HS256-signed access tokens. The secret
// is process-wide configuration; rotating it invalidates all outstanding
// tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given signing secret and
// token lifetime.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl}
}

// Issue creates a signed token whose subject is the user's id and whose
// expiry is now plus the configured lifetime.
func (s *TokenService) Issue(userID int) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %v", err)
	}
	return signed, nil
}

// Verify checks the token's signature and expiry and returns the user id
// from the subject claim. Any failure maps to ErrUnauthenticated.
func (s *TokenService) Verify(tokenString string) (int, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return 0, ErrUnauthenticated
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrUnauthenticated
	}
	id, err := strconv.Atoi(claims.Subject)
	if err != nil || id <= 0 {
		return 0, ErrUnauthenticated
	}
	return id, nil
}
