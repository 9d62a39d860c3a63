package postgres

import (
	"context"
	"errors"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/skillforge/skillforge/internal/errs"
	"github.com/skillforge/skillforge/internal/model"
)

// UserRepo implements UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	const q = `
INSERT INTO users (id, email, password_hash, display_name, xp, streak, last_active_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Pool.Exec(ctx, q, u.ID, u.Email, u.PasswordHash, u.DisplayName, u.XP, u.Streak, u.LastActiveAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	return err
}

// GetByID selects a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `
SELECT id, email, password_hash, display_name, xp, streak, last_active_at, created_at, updated_at
FROM users WHERE id=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// GetByEmail selects a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `
SELECT id, email, password_hash, display_name, xp, streak, last_active_at, created_at, updated_at
FROM users WHERE email=$1`
	return r.scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

// UpdateProgress persists XP/streak bookkeeping for a user.
func (r *UserRepo) UpdateProgress(ctx context.Context, id uuid.UUID, xp int64, streak int) error {
	const q = `
UPDATE users
SET xp = $2, streak = $3, last_active_at = now(), updated_at = now()
WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id, xp, streak)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.XP, &u.Streak, &u.LastActiveAt, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, errs.ErrNotFound
	}
	return &u, nil
}
