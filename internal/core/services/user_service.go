package services

import (
	"context"
	"fmt"
	"io"

	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

type userService struct {
	repo    ports.UserRepository
	avatars ports.AvatarStore
}

func NewUserService(repo ports.UserRepository, avatars ports.AvatarStore) ports.UserService {
	return &userService{
		repo:    repo,
		avatars: avatars,
	}
}

func (s *userService) UpdateAvatar(ctx context.Context, user *domain.User, filename string, data io.Reader) (*domain.User, error) {
	url, err := s.avatars.Save(filename, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	updated, err := s.repo.UpdateAvatar(ctx, user.ID, url)
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}
	return updated, nil
}
