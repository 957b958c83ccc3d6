package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

func newAuthFixture(t *testing.T) (ports.AuthService, *fakeUserRepo, *recordingSender) {
	t.Helper()
	repo := newFakeUserRepo()
	sender := newRecordingSender()
	hasher := NewPasswordHasher(bcrypt.MinCost)
	tokens := NewTokenService("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(repo, hasher, tokens, sender), repo, sender
}

func registerInput() ports.RegisterInput {
	return ports.RegisterInput{Username: "anna", Email: "anna@example.com", Password: "Secret1!"}
}

func waitForConfirmURL(t *testing.T, sender *recordingSender) string {
	t.Helper()
	select {
	case url := <-sender.sent:
		return url
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email was not sent")
		return ""
	}
}

func TestRegisterConfirmLogin(t *testing.T) {
	svc, _, sender := newAuthFixture(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput(), "http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "anna", user.Username)
	assert.False(t, user.Confirmed)
	assert.NotEqual(t, "Secret1!", user.HashedPassword, "password must never be stored as plaintext")

	// Login is rejected until the email is confirmed, even with valid
	// credentials.
	_, err = svc.Login(ctx, "anna", "Secret1!")
	assert.ErrorIs(t, err, domain.ErrEmailNotConfirmed)

	confirmURL := waitForConfirmURL(t, sender)
	token := confirmURL[strings.LastIndex(confirmURL, "/")+1:]

	already, err := svc.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	assert.False(t, already)

	accessToken, err := svc.Login(ctx, "anna", "Secret1!")
	require.NoError(t, err)

	resolved, err := svc.Authenticate(ctx, accessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, "anna", resolved.Username)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput(), "http://localhost:8080")
	require.NoError(t, err)
	require.NoError(t, repo.ConfirmEmail(ctx, "anna@example.com"))

	_, err = svc.Login(ctx, "anna", "WrongPass1!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// Unknown usernames produce the same error as bad passwords.
	_, err = svc.Login(ctx, "nobody", "Secret1!")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRegister_Duplicates(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput(), "http://localhost:8080")
	require.NoError(t, err)

	sameEmail := ports.RegisterInput{Username: "other", Email: "anna@example.com", Password: "Secret1!"}
	_, err = svc.Register(ctx, sameEmail, "http://localhost:8080")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	sameUsername := ports.RegisterInput{Username: "anna", Email: "other@example.com", Password: "Secret1!"}
	_, err = svc.Register(ctx, sameUsername, "http://localhost:8080")
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	input := registerInput()
	input.Password = "weak"
	_, err := svc.Register(context.Background(), input, "http://localhost:8080")

	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestConfirmEmail_RejectsAccessToken(t *testing.T) {
	svc, repo, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput(), "http://localhost:8080")
	require.NoError(t, err)
	require.NoError(t, repo.ConfirmEmail(ctx, "anna@example.com"))

	accessToken, err := svc.Login(ctx, "anna", "Secret1!")
	require.NoError(t, err)

	// An access token is structurally valid but carries the wrong scope.
	_, err = svc.ConfirmEmail(ctx, accessToken)
	assert.ErrorIs(t, err, domain.ErrTokenScope)
}

func TestConfirmEmail_AlreadyConfirmed(t *testing.T) {
	svc, repo, sender := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput(), "http://localhost:8080")
	require.NoError(t, err)
	require.NoError(t, repo.ConfirmEmail(ctx, "anna@example.com"))

	confirmURL := waitForConfirmURL(t, sender)
	token := confirmURL[strings.LastIndex(confirmURL, "/")+1:]

	already, err := svc.ConfirmEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, already)
}

func TestAuthenticate_Rejections(t *testing.T) {
	svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "not-a-token")
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)

	// Expired access tokens are rejected distinctly.
	expiredTokens := NewTokenService("test-secret", -time.Minute, time.Hour)
	expired, err := expiredTokens.IssueAccessToken("anna")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)

	// A well-signed token whose subject no longer resolves to an account.
	tokens := NewTokenService("test-secret", time.Hour, time.Hour)
	ghost, err := tokens.IssueAccessToken("ghost")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRequestEmail(t *testing.T) {
	svc, repo, sender := newAuthFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput(), "http://localhost:8080")
	require.NoError(t, err)
	waitForConfirmURL(t, sender)

	already, err := svc.RequestEmail(ctx, "anna@example.com", "http://localhost:8080")
	require.NoError(t, err)
	assert.False(t, already)
	waitForConfirmURL(t, sender)

	_, err = svc.RequestEmail(ctx, "nobody@example.com", "http://localhost:8080")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	require.NoError(t, repo.ConfirmEmail(ctx, "anna@example.com"))
	already, err = svc.RequestEmail(ctx, "anna@example.com", "http://localhost:8080")
	require.NoError(t, err)
	assert.True(t, already)
}
