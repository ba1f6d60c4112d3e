// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"oj/config"
	deliverycontext "oj/internal/delivery/context"
	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/domain/repository"
	"oj/internal/domain/service"
	"oj/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// maxSlugAttempts bounds the collision retry loop when allocating a user
// slug from the email local part.
const maxSlugAttempts = 5

// authService implements the AuthUsecase interface.
type authService struct {
	txManager repository.TransactionManager
	tokenRepo repository.LoginTokenRepository
	userRepo  repository.UserRepository
	codec     service.SessionCodec
	captcha   service.CaptchaVerifier
	mailer    service.MailSender
	audit     service.AuditRecorder
	cfg       *config.Config
	logger    *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	TokenRepo repository.LoginTokenRepository
	UserRepo  repository.UserRepository
	Codec     service.SessionCodec
	Captcha   service.CaptchaVerifier
	Mailer    service.MailSender
	Audit     service.AuditRecorder
	Config    *config.Config
	Logger    *slog.Logger
}

// NewAuthService is the constructor for authService. It receives all dependencies as interfaces.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager: params.TxManager,
		tokenRepo: params.TokenRepo,
		userRepo:  params.UserRepo,
		codec:     params.Codec,
		captcha:   params.Captcha,
		mailer:    params.Mailer,
		audit:     params.Audit,
		cfg:       params.Config,
		logger:    params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RequestLink validates the address, enforces the per-email quota and
// issues a fresh single-use token. In production the magic link travels by
// email; elsewhere it is returned to the caller directly.
func (srv *authService) RequestLink(ctx context.Context, input usecase.RequestLinkInput) (*usecase.RequestLinkOutput, error) {
	prod := srv.cfg.Mode().IsProduction()

	email, err := srv.normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}

	if prod {
		ok, verifyErr := srv.captcha.Verify(ctx, input.CaptchaToken)
		if verifyErr != nil {
			srv.log(ctx).Error("CAPTCHA verification errored", slog.Any("error", verifyErr))

			return nil, domainerrors.ErrInternal.WrapMessage("captcha verification unavailable")
		}
		if !ok {
			return nil, domainerrors.ErrPermissionDenied.WithDetails("captcha verification failed")
		}
	}

	now := time.Now().Unix()
	since := now - int64(srv.cfg.Auth.IssueWindow.Seconds())
	issued, err := srv.audit.CountTokenCreatesSince(ctx, email, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count issued tokens")
	}
	if issued >= int64(srv.cfg.Auth.IssueLimit) {
		return nil, domainerrors.ErrResourceExhausted.WithDetails("too many sign-in links requested for this address")
	}

	token, err := srv.tokenRepo.Issue(ctx, email, srv.cfg.Auth.TokenTTL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to issue login token")
	}

	if err := srv.recordAudit(ctx, &service.AuthEvent{
		Type:      entity.AuthEventTokenCreate,
		Email:     email,
		IP:        input.IP,
		UserAgent: input.UserAgent,
	}); err != nil {
		return nil, err
	}

	link := srv.buildMagicLink(token.Token)

	if prod {
		if err := srv.mailer.Send(ctx, email, "Your sign-in link",
			fmt.Sprintf(`<p><a href="%s">Sign in</a> to continue. The link is valid for %d minutes and can be used once.</p>`,
				link, int(srv.cfg.Auth.TokenTTL.Minutes()))); err != nil {
			srv.log(ctx).Error("Failed to send sign-in email", slog.Any("error", err))

			return nil, domainerrors.ErrInternal.WrapMessage("failed to send sign-in email")
		}

		return &usecase.RequestLinkOutput{}, nil
	}

	return &usecase.RequestLinkOutput{MagicLink: link}, nil
}

// Verify redeems a magic-link token. Missing, used and expired tokens all
// collapse to the same unauthenticated answer after an audit entry; a
// usable token is consumed and exchanged for a session.
func (srv *authService) Verify(ctx context.Context, input usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	token := strings.TrimSpace(input.Token)
	if token == "" {
		return nil, domainerrors.ErrInvalidArgument.WithDetails("token is required")
	}

	now := time.Now().Unix()
	since := now - int64(srv.cfg.Auth.VerifyWindow.Seconds())
	failures, err := srv.audit.CountLoginFailuresSince(ctx, input.IP, since)
	if err != nil {
		return nil, errors.Wrap(err, "failed to count login failures")
	}
	if failures >= int64(srv.cfg.Auth.VerifyLimit) {
		return nil, domainerrors.ErrResourceExhausted.WithDetails("too many failed sign-in attempts")
	}

	row, err := srv.tokenRepo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			srv.recordFailure(ctx, input, "", "not_found")

			return nil, domainerrors.ErrUnauthenticated.WrapMessage("unknown token")
		}

		return nil, errors.Wrap(err, "failed to look up login token")
	}

	if row.Consumed() {
		srv.recordFailure(ctx, input, row.Email, "used")

		return nil, domainerrors.ErrUnauthenticated.WrapMessage("token already used")
	}

	if row.Expired(now) {
		// Expired tokens are consumed on first touch so a later leak of the
		// same value is inert.
		if consumeErr := srv.tokenRepo.Consume(ctx, token); consumeErr != nil {
			srv.log(ctx).Warn("Failed to consume expired token", slog.Any("error", consumeErr))
		}
		srv.recordFailure(ctx, input, row.Email, "expired")

		return nil, domainerrors.ErrUnauthenticated.WrapMessage("token expired")
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		// Consume first: if a concurrent verify won the race, no user write
		// happens here at all.
		if err := repoFactory.LoginTokenRepo().Consume(ctx, token); err != nil {
			if errors.Is(err, repository.ErrTokenNotFound) {
				return domainerrors.ErrUnauthenticated.WrapMessage("token already used")
			}

			return errors.Wrap(err, "failed to consume token")
		}

		found, err := srv.upsertUser(ctx, repoFactory.UserRepo(), row.Email)
		if err != nil {
			return err
		}
		user = found

		return nil
	})
	if err != nil {
		var appErr domainerrors.AppError
		if errors.As(err, &appErr) && appErr.Kind() == domainerrors.KindUnauthenticated {
			srv.recordFailure(ctx, input, row.Email, "used")

			return nil, err
		}

		return nil, errors.Wrap(err, "failed to execute verify transaction")
	}

	sid, err := srv.codec.Encode(user.Email)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode session")
	}

	if err := srv.recordAudit(ctx, &service.AuthEvent{
		Type:      entity.AuthEventLoginSuccess,
		Email:     user.Email,
		IP:        input.IP,
		UserAgent: input.UserAgent,
	}); err != nil {
		return nil, err
	}

	return &usecase.VerifyOutput{User: user, SessionID: sid}, nil
}

// Logout records the sign-out. Cookie clearing is the delivery layer's
// job; the audit entry is best effort in every mode.
func (srv *authService) Logout(ctx context.Context, input usecase.LogoutInput) error {
	if err := srv.audit.Record(ctx, &service.AuthEvent{
		Type:      entity.AuthEventLogout,
		Email:     input.Email,
		IP:        input.IP,
		UserAgent: input.UserAgent,
	}); err != nil {
		srv.log(ctx).Warn("Failed to record logout", slog.Any("error", err))
	}

	return nil
}

// WhoAmI resolves the session email to the current user. A session naming
// an address with no user row is treated as unauthenticated, not as an
// internal inconsistency.
func (srv *authService) WhoAmI(ctx context.Context, email string) (*entity.User, error) {
	user, err := srv.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUnauthenticated.WrapMessage("unknown session subject")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// normalizeEmail lowercases and trims the address, then enforces shape and
// the allow-listed domain.
func (srv *authService) normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domainerrors.ErrInvalidArgument.WithDetails("email is required")
	}

	parsed, err := mail.ParseAddress(email)
	if err != nil || parsed.Address != email {
		return "", domainerrors.ErrInvalidArgument.WithDetails("malformed email address")
	}

	domain := email[strings.LastIndex(email, "@")+1:]
	if allowed := strings.ToLower(srv.cfg.Auth.AllowedDomain); allowed != "" && domain != allowed {
		return "", domainerrors.ErrInvalidArgument.WithDetails("email domain is not allowed")
	}

	return email, nil
}

// upsertUser finds or creates the account for a verified email. New
// accounts get a slug derived from the local part, with bounded random
// suffix retries on collision; inactive accounts are reactivated.
func (srv *authService) upsertUser(ctx context.Context, userRepo repository.UserRepository, email string) (*entity.User, error) {
	user, err := userRepo.FindByEmail(ctx, email)
	if err == nil {
		if !user.IsActive {
			if err := userRepo.Activate(ctx, user.ID); err != nil {
				return nil, errors.Wrap(err, "failed to reactivate user")
			}
			user.IsActive = true
		}

		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, errors.Wrap(err, "failed to find user")
	}

	base := slugFromEmail(email)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug := base
		if attempt > 0 {
			suffix, err := randomSlugSuffix()
			if err != nil {
				return nil, errors.Wrap(err, "failed to generate slug suffix")
			}
			slug = base + "-" + suffix
		}

		candidate := &entity.User{
			Email:    email,
			Slug:     slug,
			IsActive: true,
		}
		err := userRepo.Create(ctx, candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, repository.ErrUserConflict) {
			return nil, errors.Wrap(err, "failed to create user")
		}

		// The conflict may be the email itself when a concurrent verify
		// created the account first.
		if existing, findErr := userRepo.FindByEmail(ctx, email); findErr == nil {
			return existing, nil
		}
	}

	return nil, domainerrors.ErrInternal.WrapMessage("failed to allocate a unique slug")
}

func (srv *authService) buildMagicLink(token string) string {
	return srv.cfg.Auth.LinkBaseURL + "?token=" + url.QueryEscape(token)
}

// recordAudit writes a success-path audit entry. Production treats a
// failed write as a failed operation; development modes log and move on.
func (srv *authService) recordAudit(ctx context.Context, event *service.AuthEvent) error {
	if err := srv.audit.Record(ctx, event); err != nil {
		if srv.cfg.Mode().IsProduction() {
			return errors.Wrapf(err, "failed to record %s", event.Type)
		}
		srv.log(ctx).Warn("Failed to record audit entry",
			slog.String("type", string(event.Type)),
			slog.Any("error", err),
		)
	}

	return nil
}

// recordFailure appends a login_failure entry, best effort. These entries
// also feed the per-IP verify limit.
func (srv *authService) recordFailure(ctx context.Context, input usecase.VerifyInput, email, reason string) {
	if err := srv.audit.Record(ctx, &service.AuthEvent{
		Type:      entity.AuthEventLoginFailure,
		Email:     email,
		IP:        input.IP,
		UserAgent: input.UserAgent,
		Details:   map[string]string{"reason": reason},
	}); err != nil {
		srv.log(ctx).Warn("Failed to record login failure", slog.Any("error", err))
	}
}

// slugFromEmail derives a slug candidate from the email local part,
// keeping lowercase letters, digits and single hyphens.
func slugFromEmail(email string) string {
	local := email
	if at := strings.LastIndex(email, "@"); at >= 0 {
		local = email[:at]
	}

	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range local {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "user"
	}

	return slug
}

func randomSlugSuffix() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}
