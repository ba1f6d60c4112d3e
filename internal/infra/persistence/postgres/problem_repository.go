// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"encoding/json"

	"oj/internal/domain/entity"
	"oj/internal/domain/repository"
	"oj/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// problemRepository implements the domain.ProblemRepository interface.
type problemRepository struct {
	db *gorm.DB
}

// NewProblemRepository is the constructor for problemRepository.
func NewProblemRepository(db *gorm.DB) repository.ProblemRepository {
	return &problemRepository{db: db}
}

// FindByID retrieves a problem with its limits by its unique ID.
func (repo *problemRepository) FindByID(ctx context.Context, id string) (*entity.Problem, error) {
	var problemM model.ProblemModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&problemM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProblemNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toProblemDomain(&problemM)
}

// --- Mapper Functions ---

// toProblemDomain converts a GORM ProblemModel to a domain Problem entity.
func toProblemDomain(data *model.ProblemModel) (*entity.Problem, error) {
	if data == nil {
		return nil, nil
	}

	var languages []string
	if data.LanguageLimit != "" {
		if err := json.Unmarshal([]byte(data.LanguageLimit), &languages); err != nil {
			return nil, errors.Wrapf(err, "malformed language limit for problem %s", data.ID)
		}
	}

	return &entity.Problem{
		ID:                data.ID,
		CodeSizeLimitByte: data.CodeSizeLimitByte,
		TimeLimitMs:       data.TimeLimitMs,
		MemoryLimitByte:   data.MemoryLimitByte,
		LanguageLimit:     languages,
	}, nil
}
