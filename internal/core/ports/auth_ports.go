package ports

import (
	"context"
	"io"

	"github.com/ostryk/contactio/internal/core/domain"
)

// TokenScope discriminates what a signed token may be used for. Tokens of one
// scope are never valid where the other is expected.
type TokenScope string

const (
	ScopeAccess       TokenScope = "access"
	ScopeEmailConfirm TokenScope = "email_confirmation"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether the password matches the digest. It never
	// returns an error; malformed digests simply do not match.
	Verify(password, digest string) bool
}

type TokenService interface {
	IssueAccessToken(username string) (string, error)
	IssueConfirmationToken(email string) (string, error)
	// Verify checks signature, expiry and scope, returning the subject.
	// Fails with domain.ErrTokenExpired, domain.ErrTokenScope or
	// domain.ErrTokenInvalid.
	Verify(token string, scope TokenScope) (string, error)
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput, baseURL string) (*domain.User, error)
	// Login returns a signed access token for a confirmed user with valid
	// credentials.
	Login(ctx context.Context, username, password string) (string, error)
	// ConfirmEmail marks the token's subject as confirmed. The boolean is
	// true when the address had already been confirmed earlier.
	ConfirmEmail(ctx context.Context, token string) (bool, error)
	// RequestEmail re-sends the confirmation mail. The boolean is true when
	// the address is already confirmed and nothing was sent.
	RequestEmail(ctx context.Context, email, baseURL string) (bool, error)
	// Authenticate resolves a bearer token to the user it was issued for.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

type EmailSender interface {
	SendConfirmation(ctx context.Context, to, username, confirmURL string) error
}

type AvatarStore interface {
	// Save stores the avatar content under a generated object name derived
	// from filename's extension and returns the public URL.
	Save(filename string, data io.Reader) (string, error)
}
