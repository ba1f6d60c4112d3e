package service

import "context"

// CaptchaVerifier checks a client-supplied CAPTCHA assertion against the
// verification service. A false result with nil error means the service
// answered and rejected the assertion.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}
