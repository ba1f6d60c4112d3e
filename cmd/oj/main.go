package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"oj/config"
	"oj/internal/delivery"
	"oj/internal/delivery/http"
	httpmiddleware "oj/internal/delivery/http/middleware"
	"oj/internal/delivery/http/router/handler"
	"oj/internal/domain/service"
	"oj/internal/infra/auth"
	"oj/internal/infra/captcha"
	logs "oj/internal/infra/log"
	"oj/internal/infra/mail"
	"oj/internal/infra/persistence/postgres"
	"oj/internal/infra/queue"
	"oj/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewUserRepository,
			postgres.NewLoginTokenRepository,
			postgres.NewSubmissionRepository,
			postgres.NewProblemRepository,
			postgres.NewAuthLogRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewSessionCodec,
			auth.NewAuditRecorder,
			newCaptchaVerifier,
			newMailSender,
			queue.NewJobPublisher,
		),
	)
}

// newCaptchaVerifier creates the CAPTCHA verifier. CAPTCHA is only enforced
// in production, so a missing configuration is an error there and a no-op
// elsewhere.
func newCaptchaVerifier(cfg *config.Config) (service.CaptchaVerifier, error) {
	if cfg.Captcha == nil {
		if cfg.Mode().IsProduction() {
			return nil, fmt.Errorf("captcha configuration is required in production")
		}

		return nil, nil
	}

	return captcha.NewTurnstileVerifier(cfg)
}

// newMailSender creates the transactional email sender. Development modes
// echo the magic link instead of mailing it, so email config is optional
// outside production.
func newMailSender(cfg *config.Config) (service.MailSender, error) {
	if cfg.Email == nil {
		if cfg.Mode().IsProduction() {
			return nil, fmt.Errorf("email configuration is required in production")
		}

		return nil, nil
	}

	return mail.NewResendSender(cfg)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewSubmissionService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			httpmiddleware.NewSessionMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewUserHandler,
			handler.NewSubmissionHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
