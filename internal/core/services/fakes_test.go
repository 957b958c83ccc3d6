package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

// fakeUserRepo is an in-memory ports.UserRepository for service tests.
type fakeUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*domain.User{}, nextID: 1}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range r.users {
		if existing.Username == user.Username {
			return domain.ErrDuplicateUsername
		}
		if existing.Email == user.Email {
			return domain.ErrDuplicateEmail
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	r.nextID++
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) ConfirmEmail(_ context.Context, email string) error {
	for _, user := range r.users {
		if user.Email == email {
			user.Confirmed = true
			return nil
		}
	}
	return domain.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateAvatar(_ context.Context, userID int64, avatar string) (*domain.User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.Avatar = avatar
	clone := *user
	return &clone, nil
}

// recordingSender captures confirmation-mail sends on a channel so tests can
// wait for the background dispatch.
type recordingSender struct {
	sent chan string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{sent: make(chan string, 8)}
}

func (s *recordingSender) SendConfirmation(_ context.Context, _, _, confirmURL string) error {
	s.sent <- confirmURL
	return nil
}

// fakeContactRepo is an in-memory ports.ContactRepository mirroring the
// owner-scoping and uniqueness behavior of the postgres adapter.
type fakeContactRepo struct {
	contacts map[int64]*domain.Contact
	nextID   int64
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: map[int64]*domain.Contact{}, nextID: 1}
}

func (r *fakeContactRepo) Create(_ context.Context, contact *domain.Contact) error {
	if contact.Email != "" {
		for _, existing := range r.contacts {
			if existing.UserID == contact.UserID && existing.Email == contact.Email {
				return domain.ErrDuplicateContactEmail
			}
		}
	}
	contact.ID = r.nextID
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = contact.CreatedAt
	r.nextID++
	clone := *contact
	r.contacts[contact.ID] = &clone
	return nil
}

func (r *fakeContactRepo) GetByID(_ context.Context, id, userID int64) (*domain.Contact, error) {
	contact, ok := r.contacts[id]
	if !ok || contact.UserID != userID {
		return nil, domain.ErrContactNotFound
	}
	clone := *contact
	return &clone, nil
}

func (r *fakeContactRepo) Update(_ context.Context, contact *domain.Contact) error {
	existing, ok := r.contacts[contact.ID]
	if !ok || existing.UserID != contact.UserID {
		return domain.ErrContactNotFound
	}
	if contact.Email != "" {
		for _, other := range r.contacts {
			if other.ID != contact.ID && other.UserID == contact.UserID && other.Email == contact.Email {
				return domain.ErrDuplicateContactEmail
			}
		}
	}
	contact.UpdatedAt = time.Now()
	clone := *contact
	r.contacts[contact.ID] = &clone
	return nil
}

func (r *fakeContactRepo) Delete(_ context.Context, id, userID int64) error {
	contact, ok := r.contacts[id]
	if !ok || contact.UserID != userID {
		return domain.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *fakeContactRepo) List(_ context.Context, userID int64, limit, offset int) ([]*domain.Contact, error) {
	return paginate(r.owned(userID), limit, offset), nil
}

func (r *fakeContactRepo) Search(_ context.Context, userID int64, filter ports.SearchFilter, limit, offset int) ([]*domain.Contact, error) {
	var matched []*domain.Contact
	for _, contact := range r.owned(userID) {
		if matches(contact.FirstName, filter.FirstName) &&
			matches(contact.LastName, filter.LastName) &&
			matches(contact.Email, filter.Email) {
			matched = append(matched, contact)
		}
	}
	return paginate(matched, limit, offset), nil
}

func (r *fakeContactRepo) UpcomingBirthdays(_ context.Context, userID int64, startDOY, endDOY, limit, offset int) ([]*domain.Contact, error) {
	var matched []*domain.Contact
	for _, contact := range r.owned(userID) {
		if contact.Birthday == nil {
			continue
		}
		if domain.InBirthdayWindow(contact.Birthday.YearDay(), startDOY, endDOY) {
			matched = append(matched, contact)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Birthday.YearDay() < matched[j].Birthday.YearDay()
	})
	return paginate(matched, limit, offset), nil
}

func (r *fakeContactRepo) owned(userID int64) []*domain.Contact {
	var contacts []*domain.Contact
	for _, contact := range r.contacts {
		if contact.UserID == userID {
			clone := *contact
			contacts = append(contacts, &clone)
		}
	}
	sort.Slice(contacts, func(i, j int) bool { return contacts[i].ID < contacts[j].ID })
	return contacts
}

func matches(value, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(filter))
}

func paginate(contacts []*domain.Contact, limit, offset int) []*domain.Contact {
	if offset >= len(contacts) {
		return nil
	}
	contacts = contacts[offset:]
	if limit < len(contacts) {
		contacts = contacts[:limit]
	}
	return contacts
}
