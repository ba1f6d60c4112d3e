package entity

import "github.com/google/uuid"

// AuthEventType classifies an entry in the append-only auth audit log.
type AuthEventType string

const (
	AuthEventTokenCreate  AuthEventType = "token_create"
	AuthEventTokenVerify  AuthEventType = "token_verify"
	AuthEventLoginSuccess AuthEventType = "login_success"
	AuthEventLoginFailure AuthEventType = "login_failure"
	AuthEventLogout       AuthEventType = "logout"
)

// AuthLogEntry is one append-only audit record. Email and IP are stored as
// keyed hashes, never raw; entries are never mutated or deleted.
type AuthLogEntry struct {
	ID        uuid.UUID     // The unique identifier for this entry.
	Type      AuthEventType // What happened.
	EmailHash string        // HMAC of the normalized email; empty when no email is involved.
	IPHash    string        // HMAC of the client IP; empty when no IP is known.
	UserAgent string        // Raw user agent of the request.
	Details   string        // Optional JSON-encoded detail payload, e.g. {"reason":"expired"}.
	CreatedAt int64         // Creation time, epoch seconds.
}
