package entity

// LoginToken is a single-use magic-link credential. It moves through exactly
// one transition: unconsumed to consumed. Expiry is evaluated lazily at read
// time; there is no background sweeper.
type LoginToken struct {
	Token      string // Opaque random value (32 bytes, hex-encoded); primary key.
	Email      string // Normalized address the token was issued for.
	CreatedAt  int64  // Issuance time, epoch seconds.
	ExpiresAt  int64  // Expiry time, epoch seconds.
	ConsumedAt *int64 // Consumption time, epoch seconds; nil while unconsumed.
}

// Consumed reports whether the token has already been spent.
func (t *LoginToken) Consumed() bool {
	return t.ConsumedAt != nil
}

// Expired reports whether the token is past its expiry at the given instant.
func (t *LoginToken) Expired(now int64) bool {
	return now >= t.ExpiresAt
}

// Usable reports whether the token can still complete a sign-in.
func (t *LoginToken) Usable(now int64) bool {
	return !t.Consumed() && !t.Expired(now)
}
