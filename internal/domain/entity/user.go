// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a judge account. Accounts are created lazily on the first
// successful magic-link verification for an email address; there is no
// separate registration flow.
type User struct {
	ID        uuid.UUID // The unique identifier for the user.
	Email     string    // Normalized (lowercased, trimmed) email address; unique.
	Slug      string    // URL-safe handle derived from the email local part; unique.
	IsActive  bool      // Flipped to true on every successful login.
	CreatedAt time.Time // Timestamp of when this user account was created.
}
