// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"oj/internal/domain/entity"

	"github.com/google/uuid"
)

// SubmitInput defines the data required to submit code for grading.
type SubmitInput struct {
	UserID    uuid.UUID
	ProblemID string
	Language  string
	Code      string
}

// SubmissionUsecase defines the interface for submission intake operations.
type SubmissionUsecase interface {
	// Submit validates the submission against the problem's limits,
	// persists it as queued and enqueues a grading job.
	Submit(ctx context.Context, input SubmitInput) (*entity.Submission, error)

	GetSubmission(ctx context.Context, id string) (*entity.Submission, error)
}
