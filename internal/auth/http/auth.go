package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/orgauth/internal/auth/service"
	"github.com/aussiebroadwan/orgauth/pkg/httpx"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

type AuthHandler struct {
	AuthService *service.AuthService
	IDs         service.IDGenerator
	SessionTTL  time.Duration
}

// HandleRegister creates an account and returns a session token for it.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.AuthService.RegisterAndIssue(r.Context(), service.RegisterRequest{
		ID:       h.IDs.NewID(),
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, h.tokenResponse(token))
}

// HandleLogin exchanges credentials for a session token.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, h.tokenResponse(token))
}

func (h *AuthHandler) tokenResponse(token string) TokenResponse {
	return TokenResponse{
		Success:   true,
		Token:     token,
		ExpiresIn: int64(h.SessionTTL.Seconds()),
	}
}
