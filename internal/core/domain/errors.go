package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrContactNotFound       = errors.New("contact not found")
	ErrDuplicateUsername     = errors.New("user with such username already exists")
	ErrDuplicateEmail        = errors.New("user with such email already exists")
	ErrDuplicateContactEmail = errors.New("contact with such email already exists")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrEmailNotConfirmed     = errors.New("email not confirmed")
	ErrTokenInvalid          = errors.New("invalid token")
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenScope            = errors.New("token scope mismatch")
	ErrInternal              = errors.New("internal server error")
)

// ValidationError reports which input field failed which rule. It is produced
// before any storage access and maps to a 400 at the HTTP boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
