// Package service defines the domain service interfaces implemented under
// internal/infra.
package service

import (
	"time"

	"oj/internal/domain/entity"
)

// SessionCodec encodes and verifies stateless signed session identifiers.
// The server keeps no session table; the identifier carries the email and
// issuance time under an HMAC.
type SessionCodec interface {
	// Encode returns a signed session identifier for the email, issued now.
	Encode(email string) (string, error)

	// Decode verifies the signature and freshness of a session identifier.
	// Structural, signature and age failures are indistinguishable to the
	// caller; all return ErrUnauthenticated.
	Decode(sid string) (*entity.SessionClaims, error)

	// TTL returns the configured session lifetime, used for cookie Max-Age.
	TTL() time.Duration
}
