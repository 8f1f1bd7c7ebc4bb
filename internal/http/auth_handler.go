package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/auth"
	"github.com/Aryan-git-byte/XolveTech-Website-sub001/internal/domain"
)

// AuthService is the slice of the session provider the handlers need.
type AuthService interface {
	SignIn(ctx context.Context, email, secret string) (*domain.Session, error)
	SignOut(ctx context.Context, token string) error
	RequestReset(ctx context.Context, email string) error
	CompleteReset(ctx context.Context, token, newSecret string) error
}

type AuthHandler struct {
	auth    AuthService
	timeout time.Duration
}

func NewAuthHandler(svc AuthService, timeout time.Duration) *AuthHandler {
	return &AuthHandler{auth: svc, timeout: timeout}
}

type LoginRequestDTO struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

type SessionResponseDTO struct {
	Token string `json:"token"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Secret == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email and secret are required")
		return
	}

	session, err := h.auth.SignIn(ctx, req.Email, req.Secret)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "invalid_credentials", "email or secret is wrong")
			return
		}
		respondError(w, http.StatusInternalServerError, "auth_unavailable", "could not sign in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, SessionResponseDTO{
		Token: session.Token,
		Name:  session.Name,
		Email: session.Email,
		Role:  string(session.Role),
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.auth.SignOut(ctx, tokenFromRequest(r)); err != nil {
		respondError(w, http.StatusInternalServerError, "auth_unavailable", "could not sign out")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	respondJSON(w, http.StatusNoContent, nil)
}

type ResetRequestDTO struct {
	Email string `json:"email"`
}

func (h *AuthHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ResetRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	if err := h.auth.RequestReset(ctx, req.Email); err != nil {
		respondError(w, http.StatusInternalServerError, "auth_unavailable", "could not start password reset")
		return
	}

	// always accepted, whether or not the account exists
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

type CompleteResetRequestDTO struct {
	Token     string `json:"token"`
	NewSecret string `json:"new_secret"`
}

func (h *AuthHandler) CompleteReset(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req CompleteResetRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	err := h.auth.CompleteReset(ctx, req.Token, req.NewSecret)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenInvalid):
			respondError(w, http.StatusBadRequest, "token_invalid", "reset link is malformed, request a new one")
		case errors.Is(err, auth.ErrTokenExpired):
			// distinct from a generic failure so the UI can offer a
			// fresh link instead of a retry
			respondError(w, http.StatusGone, "token_expired", "reset link has expired or was already used, request a new one")
		case errors.Is(err, auth.ErrWeakSecret):
			respondError(w, http.StatusBadRequest, "weak_secret", "new secret must be at least 8 characters")
		default:
			respondError(w, http.StatusInternalServerError, "auth_unavailable", "could not complete password reset")
		}
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
