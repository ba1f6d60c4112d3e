package auth

import (
	"context"
	"encoding/json"
	"time"

	"oj/config"
	"oj/internal/domain/entity"
	"oj/internal/domain/repository"
	"oj/internal/domain/service"
	"oj/internal/errors"
	"oj/internal/infra/signature"
)

// auditRecorder implements service.AuditRecorder on top of the auth log
// repository. It hashes email and IP with a dedicated key before the values
// leave this type, so the repository and the table only ever see digests.
type auditRecorder struct {
	repo    repository.AuthLogRepository
	hashKey string
}

// NewAuditRecorder is the constructor for auditRecorder.
func NewAuditRecorder(cfg *config.Config, repo repository.AuthLogRepository) (service.AuditRecorder, error) {
	if cfg.Auth == nil || cfg.Auth.AuditHashKey == "" {
		return nil, errors.New("audit hash key must be provided")
	}

	return &auditRecorder{
		repo:    repo,
		hashKey: cfg.Auth.AuditHashKey,
	}, nil
}

func (r *auditRecorder) Record(ctx context.Context, event *service.AuthEvent) error {
	entry := &entity.AuthLogEntry{
		Type:      event.Type,
		UserAgent: event.UserAgent,
		Details:   "{}",
		CreatedAt: time.Now().Unix(),
	}

	if event.Email != "" {
		entry.EmailHash = signature.MACHex(r.hashKey, event.Email)
	}
	if event.IP != "" {
		entry.IPHash = signature.MACHex(r.hashKey, event.IP)
	}

	if len(event.Details) > 0 {
		raw, err := json.Marshal(event.Details)
		if err != nil {
			return errors.Wrap(err, "failed to encode audit details")
		}
		entry.Details = string(raw)
	}

	return r.repo.Append(ctx, entry)
}

func (r *auditRecorder) CountLoginFailuresSince(ctx context.Context, ip string, since int64) (int64, error) {
	return r.repo.CountByTypeAndIPHashSince(ctx, entity.AuthEventLoginFailure, signature.MACHex(r.hashKey, ip), since)
}

func (r *auditRecorder) CountTokenCreatesSince(ctx context.Context, email string, since int64) (int64, error) {
	return r.repo.CountByTypeAndEmailHashSince(ctx, entity.AuthEventTokenCreate, signature.MACHex(r.hashKey, email), since)
}
