// Package repository defines the persistence interfaces the domain depends
// on. Concrete implementations live under internal/infra/persistence.
package repository

import (
	"context"
	"time"

	"oj/internal/domain/entity"
	"oj/internal/errors"
)

// ErrTokenNotFound is returned when no login token exists for a value.
var ErrTokenNotFound = errors.New("login token not found")

// LoginTokenRepository manages the lifecycle of single-use magic-link tokens.
type LoginTokenRepository interface {
	// Issue generates a fresh token for the email, deletes any existing
	// unconsumed token for the same email, and inserts the new row. The
	// delete-then-insert ordering preserves the one-active-token invariant
	// even if the second write fails.
	Issue(ctx context.Context, email string, ttl time.Duration) (*entity.LoginToken, error)

	// Find returns the token row, consumed or not; ErrTokenNotFound if absent.
	Find(ctx context.Context, token string) (*entity.LoginToken, error)

	// Consume sets consumed_at only where it is still NULL. Consuming an
	// already-consumed token is a no-op, which makes concurrent verifies
	// race-safe without in-process locking.
	Consume(ctx context.Context, token string) error
}
