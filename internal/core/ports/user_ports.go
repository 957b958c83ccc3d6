package ports

import (
	"context"
	"io"

	"github.com/ostryk/contactio/internal/core/domain"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create persists a new user and fills the generated ID and CreatedAt.
	// Returns domain.ErrDuplicateUsername or domain.ErrDuplicateEmail on a
	// unique-constraint violation.
	Create(ctx context.Context, user *domain.User) error
	ConfirmEmail(ctx context.Context, email string) error
	UpdateAvatar(ctx context.Context, userID int64, avatar string) (*domain.User, error)
}

type UserService interface {
	UpdateAvatar(ctx context.Context, user *domain.User, filename string, data io.Reader) (*domain.User, error)
}
