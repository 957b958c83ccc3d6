package services

import (
	"context"
	"time"

	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

type contactService struct {
	repo ports.ContactRepository
	now  func() time.Time
}

func NewContactService(repo ports.ContactRepository) ports.ContactService {
	return &contactService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *contactService) Create(ctx context.Context, input ports.ContactInput, user *domain.User) (*domain.Contact, error) {
	contact := &domain.Contact{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     input.Phone,
		Birthday:  input.Birthday,
		UserID:    user.ID,
	}
	if err := domain.ValidateContact(contact); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) Get(ctx context.Context, id int64, user *domain.User) (*domain.Contact, error) {
	return s.repo.GetByID(ctx, id, user.ID)
}

func (s *contactService) Update(ctx context.Context, id int64, input ports.ContactInput, user *domain.User) (*domain.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}

	contact.FirstName = input.FirstName
	contact.LastName = input.LastName
	contact.Email = input.Email
	contact.Phone = input.Phone
	contact.Birthday = input.Birthday
	if err := domain.ValidateContact(contact); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, contact); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) Remove(ctx context.Context, id int64, user *domain.User) (*domain.Contact, error) {
	contact, err := s.repo.GetByID(ctx, id, user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id, user.ID); err != nil {
		return nil, err
	}
	return contact, nil
}

func (s *contactService) List(ctx context.Context, skip, limit int, user *domain.User) ([]*domain.Contact, error) {
	return s.repo.List(ctx, user.ID, limit, skip)
}

func (s *contactService) Search(ctx context.Context, filter ports.SearchFilter, skip, limit int, user *domain.User) ([]*domain.Contact, error) {
	return s.repo.Search(ctx, user.ID, filter, limit, skip)
}

func (s *contactService) UpcomingBirthdays(ctx context.Context, days, skip, limit int, user *domain.User) ([]*domain.Contact, error) {
	start, end := domain.BirthdayWindow(s.now(), days)
	return s.repo.UpcomingBirthdays(ctx, user.ID, start, end, limit, skip)
}
