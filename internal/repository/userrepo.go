// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/skillforge/skillforge/internal/model"
)

// UserRepository is the account directory: lookup and persistence of user
// records. Email uniqueness is enforced here (unique index), not by callers.
type UserRepository interface {
	// Create inserts a new user. Returns errs.ErrAlreadyExists when the
	// email is taken.
	Create(ctx context.Context, u *model.User) error
	// GetByID loads a user by ID. Returns errs.ErrNotFound when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// GetByEmail loads a user by normalized email. Returns errs.ErrNotFound
	// when missing.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// UpdateProgress persists the XP/streak fields of a user.
	UpdateProgress(ctx context.Context, id uuid.UUID, xp int64, streak int) error
}
