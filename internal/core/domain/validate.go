package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode"
)

var phonePattern = regexp.MustCompile(`^\+?\d{10,15}$`)

const passwordSpecials = "@$!%*?&"

// ValidateUsername enforces the 3-50 character bound on registration input.
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return NewValidationError("username", "must be between 3 and 50 characters")
	}
	return nil
}

// ValidateEmail checks address syntax only; uniqueness is a storage concern.
func ValidateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return NewValidationError("email", "must be a valid email address")
	}
	return nil
}

// ValidatePassword enforces the registration password policy: 8-50 characters
// with at least one lowercase letter, one uppercase letter, one digit and one
// of @$!%*?&.
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 50 {
		return NewValidationError("password", "must be between 8 and 50 characters")
	}
	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	if !lower {
		return NewValidationError("password", "must contain at least one lowercase letter")
	}
	if !upper {
		return NewValidationError("password", "must contain at least one uppercase letter")
	}
	if !digit {
		return NewValidationError("password", "must contain at least one digit")
	}
	if !special {
		return NewValidationError("password", "must contain at least one special character (@$!%*?&)")
	}
	return nil
}

// ValidateContact checks the writable contact fields. Email and birthday are
// optional; everything else is required.
func ValidateContact(c *Contact) error {
	if c.FirstName == "" || len(c.FirstName) > 50 {
		return NewValidationError("first_name", "must be between 1 and 50 characters")
	}
	if c.LastName == "" || len(c.LastName) > 50 {
		return NewValidationError("last_name", "must be between 1 and 50 characters")
	}
	// The 15-character cap counts a leading +; the phone column is VARCHAR(15).
	if len(c.Phone) > 15 || !phonePattern.MatchString(c.Phone) {
		return NewValidationError("phone", "must be at most 15 characters: digits with an optional leading +")
	}
	if c.Email != "" {
		if len(c.Email) > 100 {
			return NewValidationError("email", "must be at most 100 characters")
		}
		if err := ValidateEmail(c.Email); err != nil {
			return err
		}
	}
	return nil
}
