package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

// uniqueViolation is the postgres class 23 error code for unique constraints.
const uniqueViolation = "23505"

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) ports.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, username, email, hashed_password, COALESCE(avatar, ''), confirmed, created_at
		FROM users WHERE id = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, email, hashed_password, COALESCE(avatar, ''), confirmed, created_at
		FROM users WHERE username = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, username, email, hashed_password, COALESCE(avatar, ''), confirmed, created_at
		FROM users WHERE email = $1`
	return r.scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (username, email, hashed_password)
		VALUES ($1, $2, $3) RETURNING id, confirmed, created_at`
	err := r.db.QueryRowContext(ctx, query, user.Username, user.Email, user.HashedPassword).
		Scan(&user.ID, &user.Confirmed, &user.CreatedAt)
	if err != nil {
		return mapUserUniqueViolation(err)
	}
	return nil
}

func (r *UserRepository) ConfirmEmail(ctx context.Context, email string) error {
	query := `UPDATE users SET confirmed = TRUE WHERE email = $1`
	result, err := r.db.ExecContext(ctx, query, email)
	if err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to confirm email: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID int64, avatar string) (*domain.User, error) {
	query := `UPDATE users SET avatar = $1 WHERE id = $2
		RETURNING id, username, email, hashed_password, COALESCE(avatar, ''), confirmed, created_at`
	return r.scanUser(r.db.QueryRowContext(ctx, query, avatar, userID))
}

func (r *UserRepository) scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.HashedPassword,
		&user.Avatar, &user.Confirmed, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// mapUserUniqueViolation translates a duplicate-key failure into the matching
// domain error so callers never see a raw driver error for a 409 case.
func mapUserUniqueViolation(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if strings.Contains(pqErr.Constraint, "email") {
			return domain.ErrDuplicateEmail
		}
		return domain.ErrDuplicateUsername
	}
	return fmt.Errorf("failed to create user: %w", err)
}
