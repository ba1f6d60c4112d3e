// Package queue publishes grading jobs to the asynchronous queue consumed
// by the grading worker.
package queue

import (
	"context"
	"log/slog"

	"oj/config"
	"oj/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Queue provider identifiers accepted in configuration.
const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

// noopPublisher is a no-op implementation when the queue is disabled
type noopPublisher struct {
	logger *slog.Logger
}

func (p *noopPublisher) PublishGradingJob(_ context.Context, job *service.GradingJob) error {
	p.logger.Debug("[NoopQueue] Job publishing disabled, skipping",
		slog.String("submission_id", job.SubmissionID),
	)

	return nil
}

func (p *noopPublisher) Close() error {
	return nil
}

// PublisherParams holds dependencies for JobPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewJobPublisher creates a JobPublisher based on configuration
func NewJobPublisher(params PublisherParams) (service.JobPublisher, error) {
	cfg := params.Config.Queue
	logger := params.Logger

	// If the queue is not configured, return a no-op publisher
	if cfg == nil || cfg.Provider == "" {
		logger.Info("Queue not configured, using no-op publisher")

		return &noopPublisher{logger: logger}, nil
	}

	var publisher service.JobPublisher
	var err error

	switch cfg.Provider {
	case ProviderLocal:
		if cfg.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Using local HTTP publisher for grading jobs",
			slog.String("endpoint", cfg.LocalEndpoint),
		)

		publisher = NewLocalHTTPPublisher(cfg.LocalEndpoint, logger)

	case ProviderGoogle:
		if cfg.ProjectID == "" {
			return nil, errors.New("project ID is required for google provider")
		}
		if cfg.TopicID == "" {
			return nil, errors.New("topic ID is required for google provider")
		}
		logger.Info("Using Google Pub/Sub publisher for grading jobs",
			slog.String("project_id", cfg.ProjectID),
			slog.String("topic_id", cfg.TopicID),
		)

		publisher, err = NewGooglePubSubPublisher(params.Ctx, cfg.ProjectID, cfg.TopicID, logger)
		if err != nil {
			return nil, err
		}

	default:
		return nil, errors.Errorf("unknown queue provider: %s", cfg.Provider)
	}

	// Register lifecycle hook to close publisher on shutdown
	params.Lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			logger.Info("Closing JobPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

// Module provides the queue FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewJobPublisher),
)
