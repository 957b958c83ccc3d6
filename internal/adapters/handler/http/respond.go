package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ostryk/contactio/internal/core/domain"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeDomainError maps the domain error taxonomy onto HTTP status codes.
// Anything unrecognized is a 500 with a generic body; the cause is logged
// server-side only.
func writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Error())
	case errors.Is(err, domain.ErrDuplicateUsername),
		errors.Is(err, domain.ErrDuplicateEmail),
		errors.Is(err, domain.ErrDuplicateContactEmail):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrEmailNotConfirmed):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrContactNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, domain.ErrInternal.Error())
	}
}
