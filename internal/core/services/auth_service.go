package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

type authService struct {
	userRepo ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	email    ports.EmailSender
}

func NewAuthService(userRepo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, email ports.EmailSender) ports.AuthService {
	return &authService{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		email:    email,
	}
}

func (s *authService) Register(ctx context.Context, input ports.RegisterInput, baseURL string) (*domain.User, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if _, err := s.userRepo.GetByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Username:       input.Username,
		Email:          input.Email,
		HashedPassword: digest,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendConfirmation(user, baseURL)
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return "", domain.ErrInvalidCredentials
	}
	if !user.Confirmed {
		return "", domain.ErrEmailNotConfirmed
	}

	return s.tokens.IssueAccessToken(user.Username)
}

func (s *authService) ConfirmEmail(ctx context.Context, token string) (bool, error) {
	email, err := s.tokens.Verify(token, ports.ScopeEmailConfirm)
	if err != nil {
		return false, err
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user.Confirmed {
		return true, nil
	}
	if err := s.userRepo.ConfirmEmail(ctx, email); err != nil {
		return false, fmt.Errorf("failed to confirm email: %w", err)
	}
	return false, nil
}

func (s *authService) RequestEmail(ctx context.Context, email, baseURL string) (bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user.Confirmed {
		return true, nil
	}

	s.sendConfirmation(user, baseURL)
	return false, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	username, err := s.tokens.Verify(token, ports.ScopeAccess)
	if err != nil {
		return nil, err
	}
	return s.userRepo.GetByUsername(ctx, username)
}

// sendConfirmation dispatches the confirmation mail in the background; the
// request that triggered it only needs the send enqueued, not completed.
func (s *authService) sendConfirmation(user *domain.User, baseURL string) {
	token, err := s.tokens.IssueConfirmationToken(user.Email)
	if err != nil {
		log.Printf("failed to issue confirmation token for %s: %v", user.Email, err)
		return
	}
	confirmURL := fmt.Sprintf("%s/auth/confirmed_email/%s", baseURL, token)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.email.SendConfirmation(ctx, user.Email, user.Username, confirmURL); err != nil {
			log.Printf("failed to send confirmation email to %s: %v", user.Email, err)
		}
	}()
}
