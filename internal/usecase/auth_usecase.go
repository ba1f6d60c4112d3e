// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"oj/internal/domain/entity"
)

// --- Input DTOs ---

// RequestLinkInput defines the data required to request a magic sign-in link.
type RequestLinkInput struct {
	Email        string
	CaptchaToken string
	IP           string
	UserAgent    string
}

// VerifyInput defines the data required to redeem a magic-link token.
type VerifyInput struct {
	Token     string
	IP        string
	UserAgent string
}

// LogoutInput carries the request metadata recorded on sign-out. Email may
// be empty when the caller's session was already invalid.
type LogoutInput struct {
	Email     string
	IP        string
	UserAgent string
}

// --- Output DTOs ---

// RequestLinkOutput reports a successful link request. MagicLink carries
// the sign-in URL only outside production; in production it is empty and
// the link travels by email instead.
type RequestLinkOutput struct {
	MagicLink string
}

// VerifyOutput returns the signed-in identity and the session identifier
// to set as the sid cookie.
type VerifyOutput struct {
	User      *entity.User
	SessionID string
}

// AuthUsecase defines the interface for the passwordless sign-in lifecycle.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type AuthUsecase interface {
	RequestLink(ctx context.Context, input RequestLinkInput) (*RequestLinkOutput, error)
	Verify(ctx context.Context, input VerifyInput) (*VerifyOutput, error)
	Logout(ctx context.Context, input LogoutInput) error

	// WhoAmI resolves the session email to the current user.
	WhoAmI(ctx context.Context, email string) (*entity.User, error)
}
