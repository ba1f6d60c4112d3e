package repository

import (
	"context"

	"oj/internal/domain/entity"
	"oj/internal/errors"
)

// ErrSubmissionNotFound is returned when no submission exists for an id.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionRepository persists code submissions. Intake only creates rows;
// status updates are the grading worker's exclusive write path and have no
// method here.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *entity.Submission) error
	FindByID(ctx context.Context, id string) (*entity.Submission, error)
}
