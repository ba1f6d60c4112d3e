package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	deliverycontext "oj/internal/delivery/context"
	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/domain/repository"
	"oj/internal/domain/service"
	"oj/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// submissionService implements the SubmissionUsecase interface.
type submissionService struct {
	submissionRepo repository.SubmissionRepository
	problemRepo    repository.ProblemRepository
	publisher      service.JobPublisher
	logger         *slog.Logger
}

// SubmissionServiceParams holds dependencies for SubmissionService, injected by Fx.
type SubmissionServiceParams struct {
	fx.In

	SubmissionRepo repository.SubmissionRepository
	ProblemRepo    repository.ProblemRepository
	Publisher      service.JobPublisher
	Logger         *slog.Logger
}

// NewSubmissionService is the constructor for submissionService.
func NewSubmissionService(params SubmissionServiceParams) usecase.SubmissionUsecase {
	return &submissionService{
		submissionRepo: params.SubmissionRepo,
		problemRepo:    params.ProblemRepo,
		publisher:      params.Publisher,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *submissionService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Submit validates the code against the problem's limits, persists the
// submission as queued and then enqueues the grading job. The publish
// happens strictly after the row is durable; a publish failure surfaces as
// an internal error while the queued row remains for later re-enqueueing.
func (srv *submissionService) Submit(ctx context.Context, input usecase.SubmitInput) (*entity.Submission, error) {
	problem, err := srv.problemRepo.FindByID(ctx, input.ProblemID)
	if err != nil {
		if errors.Is(err, repository.ErrProblemNotFound) {
			return nil, domainerrors.ErrNotFound.WithDetails("problem does not exist")
		}

		return nil, errors.Wrap(err, "failed to find problem")
	}

	if !problem.AllowsLanguage(input.Language) {
		return nil, domainerrors.ErrInvalidArgument.WithDetails("language is not allowed for this problem")
	}

	// Size is measured in encoded bytes, not runes. Exactly at the limit
	// is accepted.
	codeSize := int64(len(input.Code))
	if codeSize > problem.CodeSizeLimitByte {
		return nil, domainerrors.ErrFailedPrecondition.WithDetails("code exceeds the problem's size limit")
	}

	id, err := generateSubmissionID()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate submission id")
	}

	now := time.Now().Unix()
	submission := &entity.Submission{
		ID:           id,
		UserID:       input.UserID,
		ProblemID:    input.ProblemID,
		Status:       entity.StatusQueued,
		Language:     input.Language,
		Code:         input.Code,
		CodeSizeByte: codeSize,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := srv.submissionRepo.Create(ctx, submission); err != nil {
		return nil, errors.Wrap(err, "failed to persist submission")
	}

	job := &service.GradingJob{
		Schema:       service.GradingJobSchema,
		SubmissionID: submission.ID,
		UserID:       submission.UserID.String(),
		ProblemID:    submission.ProblemID,
		Language:     submission.Language,
		CodeRef: service.CodeRef{
			Kind: "inline",
			Code: submission.Code,
		},
		TimeLimitMs:   problem.TimeLimitMs,
		MemoryLimitKb: problem.MemoryLimitByte / 1024,
		CreatedAt:     now,
	}

	if err := srv.publisher.PublishGradingJob(ctx, job); err != nil {
		// The row stays queued; re-enqueueing is an operational concern,
		// not a reason to lose the submission.
		srv.log(ctx).Error("Failed to publish grading job",
			slog.String("submission_id", submission.ID),
			slog.Any("error", err),
		)

		return nil, domainerrors.ErrInternal.WrapMessage("failed to enqueue grading job")
	}

	srv.log(ctx).Info("Submission queued",
		slog.String("submission_id", submission.ID),
		slog.String("problem_id", submission.ProblemID),
		slog.String("language", submission.Language),
	)

	return submission, nil
}

// GetSubmission retrieves a submission by its id.
func (srv *submissionService) GetSubmission(ctx context.Context, id string) (*entity.Submission, error) {
	submission, err := srv.submissionRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return nil, domainerrors.ErrNotFound.WithDetails("submission does not exist")
		}

		return nil, errors.Wrap(err, "failed to find submission")
	}

	return submission, nil
}

// generateSubmissionID returns an id of the form "sb_<16 hex chars>".
func generateSubmissionID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return "sb_" + hex.EncodeToString(buf), nil
}
