package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

const contactColumns = `id, first_name, last_name, COALESCE(email, ''), phone, birthday, created_at, updated_at, user_id`

type ContactRepository struct {
	db *sql.DB
}

func NewContactRepository(db *sql.DB) ports.ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *domain.Contact) error {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone, birthday, user_id)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.Birthday, contact.UserID,
	).Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return mapContactUniqueViolation(err, "create")
	}
	return nil
}

func (r *ContactRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`
	return r.scanContact(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *ContactRepository) Update(ctx context.Context, contact *domain.Contact) error {
	query := `
		UPDATE contacts
		SET first_name = $1, last_name = $2, email = NULLIF($3, ''), phone = $4, birthday = $5, updated_at = NOW()
		WHERE id = $6 AND user_id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Email, contact.Phone, contact.Birthday,
		contact.ID, contact.UserID,
	).Scan(&contact.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrContactNotFound
		}
		return mapContactUniqueViolation(err, "update")
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	if affected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r *ContactRepository) List(ctx context.Context, userID int64, limit, offset int) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = $1 ORDER BY id LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	return r.scanContacts(rows)
}

func (r *ContactRepository) Search(ctx context.Context, userID int64, filter ports.SearchFilter, limit, offset int) ([]*domain.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = $1
		AND ($2 = '' OR first_name ILIKE '%' || $2 || '%')
		AND ($3 = '' OR last_name ILIKE '%' || $3 || '%')
		AND ($4 = '' OR email ILIKE '%' || $4 || '%')
		ORDER BY id LIMIT $5 OFFSET $6`
	rows, err := r.db.QueryContext(ctx, query, userID, filter.FirstName, filter.LastName, filter.Email, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()

	return r.scanContacts(rows)
}

func (r *ContactRepository) UpcomingBirthdays(ctx context.Context, userID int64, startDOY, endDOY, limit, offset int) ([]*domain.Contact, error) {
	// startDOY > endDOY means the window crosses December 31; the range
	// check becomes a union of the year's tail and the next year's head.
	window := `EXTRACT(DOY FROM birthday) >= $2 AND EXTRACT(DOY FROM birthday) <= $3`
	if startDOY > endDOY {
		window = `(EXTRACT(DOY FROM birthday) >= $2 OR EXTRACT(DOY FROM birthday) <= $3)`
	}

	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = $1 AND birthday IS NOT NULL AND ` + window + `
		ORDER BY EXTRACT(DOY FROM birthday) LIMIT $4 OFFSET $5`
	rows, err := r.db.QueryContext(ctx, query, userID, startDOY, endDOY, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming birthdays: %w", err)
	}
	defer rows.Close()

	return r.scanContacts(rows)
}

func (r *ContactRepository) scanContact(row *sql.Row) (*domain.Contact, error) {
	contact := &domain.Contact{}
	err := row.Scan(&contact.ID, &contact.FirstName, &contact.LastName, &contact.Email,
		&contact.Phone, &contact.Birthday, &contact.CreatedAt, &contact.UpdatedAt, &contact.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return contact, nil
}

func (r *ContactRepository) scanContacts(rows *sql.Rows) ([]*domain.Contact, error) {
	var contacts []*domain.Contact
	for rows.Next() {
		contact := &domain.Contact{}
		err := rows.Scan(&contact.ID, &contact.FirstName, &contact.LastName, &contact.Email,
			&contact.Phone, &contact.Birthday, &contact.CreatedAt, &contact.UpdatedAt, &contact.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}
	return contacts, nil
}

func mapContactUniqueViolation(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrDuplicateContactEmail
	}
	return fmt.Errorf("failed to %s contact: %w", op, err)
}
