package repository

import (
	"context"

	"oj/internal/domain/entity"
	"oj/internal/errors"
)

// ErrProblemNotFound is returned when no problem exists for an id.
var ErrProblemNotFound = errors.New("problem not found")

// ProblemRepository is the read-only view of problem limits used by
// submission intake.
type ProblemRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Problem, error)
}
