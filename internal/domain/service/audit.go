package service

import (
	"context"

	"oj/internal/domain/entity"
)

// AuthEvent describes one auth-affecting occurrence. Email and IP are the
// raw values; the recorder hashes them before anything touches the store.
type AuthEvent struct {
	Type      entity.AuthEventType
	Email     string            // Raw normalized email; may be empty.
	IP        string            // Raw client IP; may be empty.
	UserAgent string            // Raw user agent.
	Details   map[string]string // Optional structured detail, e.g. {"reason": "expired"}.
}

// AuditRecorder appends auth events to the append-only audit log and
// answers the sliding-window counts derived from it. It owns the keyed
// hashing of PII so raw values never reach the repository layer.
type AuditRecorder interface {
	Record(ctx context.Context, event *AuthEvent) error

	// CountLoginFailuresSince counts login_failure entries for the hashed
	// form of the given IP at or after the given epoch second.
	CountLoginFailuresSince(ctx context.Context, ip string, since int64) (int64, error)

	// CountTokenCreatesSince counts token_create entries for the hashed
	// form of the given email at or after the given epoch second. The
	// issuance rate limit counts these log entries, not token rows, since
	// issuing prunes the previous unconsumed token.
	CountTokenCreatesSince(ctx context.Context, email string, since int64) (int64, error)
}
