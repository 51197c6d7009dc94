package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"inkwell/app/models"
	"inkwell/app/services"
)

// AuthController handles HTTP requests for authentication
type AuthController struct {
	authService *services.AuthService
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Login verifies credentials and returns a bearer access token. Unknown
// usernames and wrong passwords produce the same response.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		sendError(w, http.StatusBadRequest, "username and password required")
		return
	}

	token, err := ac.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			sendError(w, http.StatusBadRequest, services.ErrInvalidCredentials.Error())
			return
		}
		log.Printf("login error: %v", err)
		sendError(w, http.StatusInternalServerError, "internal error")
		return
	}

	sendJSON(w, http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}
