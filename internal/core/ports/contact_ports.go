package ports

import (
	"context"
	"time"

	"github.com/ostryk/contactio/internal/core/domain"
)

type ContactRepository interface {
	// Create persists a new contact and fills the generated ID and
	// timestamps. Returns domain.ErrDuplicateContactEmail when the
	// (email, owner) pair already exists.
	Create(ctx context.Context, contact *domain.Contact) error
	GetByID(ctx context.Context, id, userID int64) (*domain.Contact, error)
	// Update overwrites the writable fields of an owned contact and refreshes
	// UpdatedAt. Same duplicate-email failure mode as Create.
	Update(ctx context.Context, contact *domain.Contact) error
	Delete(ctx context.Context, id, userID int64) error
	List(ctx context.Context, userID int64, limit, offset int) ([]*domain.Contact, error)
	Search(ctx context.Context, userID int64, filter SearchFilter, limit, offset int) ([]*domain.Contact, error)
	// UpcomingBirthdays selects owned contacts whose birthday day-of-year
	// falls inside [startDOY, endDOY]; when startDOY > endDOY the window
	// wraps across the year boundary. Ordered ascending by day-of-year.
	UpcomingBirthdays(ctx context.Context, userID int64, startDOY, endDOY, limit, offset int) ([]*domain.Contact, error)
}

type ContactInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Birthday  *time.Time
}

// SearchFilter holds optional, conjunctive, case-insensitive substring
// filters. Empty fields impose no constraint.
type SearchFilter struct {
	FirstName string
	LastName  string
	Email     string
}

type ContactService interface {
	Create(ctx context.Context, input ContactInput, user *domain.User) (*domain.Contact, error)
	Get(ctx context.Context, id int64, user *domain.User) (*domain.Contact, error)
	Update(ctx context.Context, id int64, input ContactInput, user *domain.User) (*domain.Contact, error)
	Remove(ctx context.Context, id int64, user *domain.User) (*domain.Contact, error)
	List(ctx context.Context, skip, limit int, user *domain.User) ([]*domain.Contact, error)
	Search(ctx context.Context, filter SearchFilter, skip, limit int, user *domain.User) ([]*domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, days, skip, limit int, user *domain.User) ([]*domain.Contact, error)
}
