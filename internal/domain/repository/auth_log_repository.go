package repository

import (
	"context"

	"oj/internal/domain/entity"
)

// AuthLogRepository appends to and counts over the auth audit log. Entries
// are append-only; there is no update or delete.
type AuthLogRepository interface {
	Append(ctx context.Context, entry *entity.AuthLogEntry) error

	// CountByTypeAndIPHashSince counts entries of one type for one hashed IP
	// at or after the given epoch second; used by the verify rate limit.
	CountByTypeAndIPHashSince(ctx context.Context, eventType entity.AuthEventType, ipHash string, since int64) (int64, error)

	// CountByTypeAndEmailHashSince counts entries of one type for one hashed
	// email at or after the given epoch second; used by the issuance rate
	// limit. The tokens table cannot serve this count because issuing
	// deletes the previous unconsumed row.
	CountByTypeAndEmailHashSince(ctx context.Context, eventType entity.AuthEventType, emailHash string, since int64) (int64, error)
}
