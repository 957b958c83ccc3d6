package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

type tokenService struct {
	secret     []byte
	accessTTL  time.Duration
	confirmTTL time.Duration
}

// NewTokenService builds the HS256 token issuer/verifier. The secret and both
// lifetimes come from configuration and are read-only afterwards.
func NewTokenService(secret string, accessTTL, confirmTTL time.Duration) ports.TokenService {
	return &tokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		confirmTTL: confirmTTL,
	}
}

func (s *tokenService) IssueAccessToken(username string) (string, error) {
	return s.issue(username, ports.ScopeAccess, s.accessTTL)
}

func (s *tokenService) IssueConfirmationToken(email string) (string, error) {
	return s.issue(email, ports.ScopeEmailConfirm, s.confirmTTL)
}

func (s *tokenService) issue(subject string, scope ports.TokenScope, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
		"scope": string(scope),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) Verify(tokenString string, scope ports.TokenScope) (string, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}

	if got, _ := claims["scope"].(string); got != string(scope) {
		return "", domain.ErrTokenScope
	}

	subject, err := claims.GetSubject()
	if err != nil || subject == "" {
		return "", domain.ErrTokenInvalid
	}
	return subject, nil
}
