package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

type AuthHandler struct {
	service ports.AuthService
}

func NewAuthHandler(service ports.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type requestEmailRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	user, err := h.service.Register(r.Context(), input, baseURL(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	alreadyConfirmed, err := h.service.ConfirmEmail(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTokenInvalid),
			errors.Is(err, domain.ErrTokenExpired),
			errors.Is(err, domain.ErrTokenScope),
			errors.Is(err, domain.ErrUserNotFound):
			// Bad or expired tokens and unknown addresses get the same answer
			// so the endpoint cannot be used to probe which emails exist.
			writeError(w, http.StatusBadRequest, "verification error")
		default:
			writeDomainError(w, err)
		}
		return
	}
	if alreadyConfirmed {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Your email is already confirmed"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Email confirmed successfully"})
}

func (h *AuthHandler) RequestEmail(w http.ResponseWriter, r *http.Request) {
	var req requestEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alreadyConfirmed, err := h.service.RequestEmail(r.Context(), req.Email, baseURL(r))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeError(w, http.StatusBadRequest, "verification error")
			return
		}
		writeDomainError(w, err)
		return
	}
	if alreadyConfirmed {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Your email is already confirmed"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Check your mailbox for confirmation email"})
}

// baseURL rebuilds the externally visible origin for confirmation links.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
