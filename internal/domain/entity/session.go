package entity

// SessionClaims is the decoded content of a signed session identifier.
// Sessions are not stored server side; the claims plus the MAC are the
// whole session.
type SessionClaims struct {
	Email    string // Normalized email of the signed-in user.
	IssuedAt int64  // Issuance time, epoch seconds; part of the signed payload.
}
