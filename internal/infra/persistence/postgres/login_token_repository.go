// Package postgres contains the concrete implementation of the persistence layer using GORM and PostgreSQL.
package postgres

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/domain/repository"
	"oj/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const tokenPurposeLogin = "login"

// loginTokenRepository implements the domain.LoginTokenRepository interface.
type loginTokenRepository struct {
	db *gorm.DB
}

// NewLoginTokenRepository is the constructor for loginTokenRepository.
func NewLoginTokenRepository(db *gorm.DB) repository.LoginTokenRepository {
	return &loginTokenRepository{db: db}
}

// Issue deletes any unconsumed token for the email, then inserts a fresh one.
// The delete runs first so a failed insert can never leave two usable tokens.
func (repo *loginTokenRepository) Issue(ctx context.Context, email string, ttl time.Duration) (*entity.LoginToken, error) {
	token, err := generateToken()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate login token")
	}

	now := time.Now().Unix()
	tokenM := &model.LoginTokenModel{
		Token:      token,
		Email:      email,
		Purpose:    tokenPurposeLogin,
		CreatedAtS: now,
		ExpiresAtS: now + int64(ttl.Seconds()),
	}

	err = repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("email = ? AND purpose = ? AND consumed_at_s IS NULL", email, tokenPurposeLogin).
			Delete(&model.LoginTokenModel{}).Error; err != nil {
			return errors.Wrap(err, "failed to delete previous login token")
		}

		return errors.Wrap(tx.Create(tokenM).Error, "failed to create login token")
	})
	if err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to issue login token")
	}

	return toLoginTokenDomain(tokenM), nil
}

// Find returns the token row regardless of consumption state.
func (repo *loginTokenRepository) Find(ctx context.Context, token string) (*entity.LoginToken, error) {
	var tokenM model.LoginTokenModel
	if err := repo.db.WithContext(ctx).
		Where("token = ?", token).
		First(&tokenM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrTokenNotFound
		}

		return nil, errors.WithStack(err)
	}

	return toLoginTokenDomain(&tokenM), nil
}

// Consume marks the token used, but only if it is still unused. The
// conditional update makes concurrent consumption race-safe: exactly one
// caller observes an affected row.
func (repo *loginTokenRepository) Consume(ctx context.Context, token string) error {
	now := time.Now().Unix()

	result := repo.db.WithContext(ctx).
		Model(&model.LoginTokenModel{}).
		Where("token = ? AND consumed_at_s IS NULL", token).
		Update("consumed_at_s", now)

	if result.Error != nil {
		return errors.WithStack(result.Error)
	}

	if result.RowsAffected == 0 {
		return repository.ErrTokenNotFound
	}

	return nil
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(buf), nil
}

// --- Mapper Functions ---

// toLoginTokenDomain converts a GORM LoginTokenModel to a domain LoginToken entity.
func toLoginTokenDomain(data *model.LoginTokenModel) *entity.LoginToken {
	if data == nil {
		return nil
	}

	return &entity.LoginToken{
		Token:      data.Token,
		Email:      data.Email,
		CreatedAt:  data.CreatedAtS,
		ExpiresAt:  data.ExpiresAtS,
		ConsumedAt: data.ConsumedAtS,
	}
}
