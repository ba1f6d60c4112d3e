package repository

import (
	"context"

	"oj/internal/domain/entity"
	"oj/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when no user exists for an id or email.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserConflict is returned when an insert violates the email or slug
	// uniqueness constraint; the caller retries with a different slug.
	ErrUserConflict = errors.New("user email or slug already taken")
)

// UserRepository manages judge accounts.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create inserts a new user row; ErrUserConflict on a uniqueness violation.
	Create(ctx context.Context, user *entity.User) error

	// Activate sets is_active for an existing user.
	Activate(ctx context.Context, id uuid.UUID) error
}
