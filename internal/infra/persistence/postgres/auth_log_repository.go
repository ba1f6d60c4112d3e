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

// authLogRepository implements the domain.AuthLogRepository interface.
type authLogRepository struct {
	db *gorm.DB
}

// NewAuthLogRepository is the constructor for authLogRepository.
func NewAuthLogRepository(db *gorm.DB) repository.AuthLogRepository {
	return &authLogRepository{db: db}
}

// Append inserts one audit entry. The table is append-only.
func (repo *authLogRepository) Append(ctx context.Context, entry *entity.AuthLogEntry) error {
	entryM := fromAuthLogDomain(entry)

	if err := repo.db.WithContext(ctx).Create(entryM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to append auth log entry")
	}

	entry.ID = entryM.ID

	return nil
}

// CountByTypeAndIPHashSince counts entries of one type for one hashed IP
// at or after the given epoch second.
func (repo *authLogRepository) CountByTypeAndIPHashSince(ctx context.Context, eventType entity.AuthEventType, ipHash string, since int64) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.AuthLogModel{}).
		Where("type = ? AND ip_hash = ? AND created_at_s >= ?", string(eventType), ipHash, since).
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// CountByTypeAndEmailHashSince counts entries of one type for one hashed
// email at or after the given epoch second.
func (repo *authLogRepository) CountByTypeAndEmailHashSince(ctx context.Context, eventType entity.AuthEventType, emailHash string, since int64) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.AuthLogModel{}).
		Where("type = ? AND email_hash = ? AND created_at_s >= ?", string(eventType), emailHash, since).
		Count(&count).Error; err != nil {
		return 0, errors.WithStack(err)
	}

	return count, nil
}

// --- Mapper Functions ---

// fromAuthLogDomain converts a domain AuthLogEntry to a GORM AuthLogModel.
func fromAuthLogDomain(data *entity.AuthLogEntry) *model.AuthLogModel {
	if data == nil {
		return nil
	}

	return &model.AuthLogModel{
		ID:         data.ID,
		Type:       string(data.Type),
		EmailHash:  data.EmailHash,
		IPHash:     data.IPHash,
		UserAgent:  data.UserAgent,
		Details:    data.Details,
		CreatedAtS: data.CreatedAt,
	}
}
