// Package auth provides concrete implementations for authentication-related
// domain services.
package auth

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"oj/config"
	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/domain/service"
	"oj/internal/errors"
	"oj/internal/infra/signature"
)

// sessionCodec implements service.SessionCodec with an HMAC-signed
// "base64url(email.issuedAt).hexmac" identifier. The issuance time lives
// inside the signed payload, so forging a fresher session requires breaking
// the MAC rather than replaying a timestamp.
type sessionCodec struct {
	secret string
	ttl    time.Duration
}

// NewSessionCodec is the constructor for sessionCodec.
func NewSessionCodec(cfg *config.Config) (service.SessionCodec, error) {
	if cfg.Auth == nil || cfg.Auth.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}

	return &sessionCodec{
		secret: cfg.Auth.SessionSecret,
		ttl:    cfg.Auth.SessionTTL,
	}, nil
}

func (c *sessionCodec) Encode(email string) (string, error) {
	if email == "" {
		return "", errors.New("email must not be empty")
	}

	return EncodeSession(c.secret, email, time.Now().Unix()), nil
}

func (c *sessionCodec) Decode(sid string) (*entity.SessionClaims, error) {
	return DecodeSession(c.secret, sid, c.ttl, time.Now().Unix())
}

func (c *sessionCodec) TTL() time.Duration {
	return c.ttl
}

// EncodeSession builds a signed session identifier from an explicit secret
// and issuance instant. The signed payload is "email.issuedAt".
func EncodeSession(secret, email string, issuedAt int64) string {
	payload := email + "." + strconv.FormatInt(issuedAt, 10)
	mac := signature.MACHex(secret, payload)

	return base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + mac
}

// DecodeSession verifies structure, signature and freshness of a session
// identifier. Every failure collapses to the same unauthenticated error so
// the response never reveals which check rejected the value.
func DecodeSession(secret, sid string, maxAge time.Duration, now int64) (*entity.SessionClaims, error) {
	encodedPayload, mac, ok := strings.Cut(sid, ".")
	if !ok || encodedPayload == "" || mac == "" {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("malformed session identifier")
	}

	rawPayload, err := base64.RawURLEncoding.DecodeString(encodedPayload)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("undecodable session payload")
	}
	payload := string(rawPayload)

	if !signature.VerifyHex(secret, payload, mac) {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("session signature mismatch")
	}

	// The email local part may contain dots; the issuance time is the
	// segment after the last one.
	sep := strings.LastIndex(payload, ".")
	if sep <= 0 || sep == len(payload)-1 {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("malformed session payload")
	}
	email := payload[:sep]
	issuedAt, err := strconv.ParseInt(payload[sep+1:], 10, 64)
	if err != nil {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("malformed session issuance time")
	}

	if now-issuedAt >= int64(maxAge.Seconds()) {
		return nil, domainerrors.ErrUnauthenticated.WrapMessage("session expired")
	}

	return &entity.SessionClaims{Email: email, IssuedAt: issuedAt}, nil
}
