// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"

	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/domain/repository"
	"oj/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// submissionRepository implements the domain.SubmissionRepository interface.
type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository is the constructor for submissionRepository.
func NewSubmissionRepository(db *gorm.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

// Create persists a new submission row.
func (repo *submissionRepository) Create(ctx context.Context, submission *entity.Submission) error {
	submissionM := fromSubmissionDomain(submission)

	if err := repo.db.WithContext(ctx).Create(submissionM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "submission id already exists")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.NewDatabaseExecuteError(err, "invalid user or problem reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create submission")
	}

	return nil
}

// FindByID retrieves a submission by its unique ID.
func (repo *submissionRepository) FindByID(ctx context.Context, id string) (*entity.Submission, error) {
	var submissionM model.SubmissionModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&submissionM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrSubmissionNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toSubmissionDomain(&submissionM), nil
}

// --- Mapper Functions ---

// toSubmissionDomain converts a GORM SubmissionModel to a domain Submission entity.
func toSubmissionDomain(data *model.SubmissionModel) *entity.Submission {
	if data == nil {
		return nil
	}

	return &entity.Submission{
		ID:            data.ID,
		UserID:        data.UserID,
		ProblemID:     data.ProblemID,
		Status:        entity.SubmissionStatus(data.Status),
		Language:      data.Language,
		Code:          data.Code,
		CodeSizeByte:  data.CodeSizeByte,
		RunTimeMs:     data.RunTimeMs,
		RunMemoryByte: data.RunMemoryByte,
		CreatedAt:     data.CreatedAtS,
		UpdatedAt:     data.UpdatedAtS,
	}
}

// fromSubmissionDomain converts a domain Submission entity to a GORM SubmissionModel.
func fromSubmissionDomain(data *entity.Submission) *model.SubmissionModel {
	if data == nil {
		return nil
	}

	return &model.SubmissionModel{
		ID:            data.ID,
		UserID:        data.UserID,
		ProblemID:     data.ProblemID,
		Status:        string(data.Status),
		Language:      data.Language,
		Code:          data.Code,
		CodeSizeByte:  data.CodeSizeByte,
		RunTimeMs:     data.RunTimeMs,
		RunMemoryByte: data.RunMemoryByte,
		CreatedAtS:    data.CreatedAt,
		UpdatedAtS:    data.UpdatedAt,
	}
}
