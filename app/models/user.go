package models

import "time"

// Validate checks the user against its field constraints.
func (u *User) Validate() error {
	return validate.Struct(u)
}

// BeforeCreate sets up any necessary fields before creation.
func (u *User) BeforeCreate() {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
}

// LoginRequest is the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validate checks that both credentials are present.
func (r *LoginRequest) Validate() error {
	return validate.Struct(r)
}

// TokenResponse is the successful login response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
