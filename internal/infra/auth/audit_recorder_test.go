package auth

import (
	"context"
	"testing"

	"oj/config"
	"oj/internal/domain/entity"
	"oj/internal/domain/service"
	"oj/internal/infra/signature"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingAuthLogRepo struct {
	entries []*entity.AuthLogEntry

	lastType      entity.AuthEventType
	lastIPHash    string
	lastEmailHash string
	lastSince     int64
	count         int64
}

func (r *capturingAuthLogRepo) Append(_ context.Context, entry *entity.AuthLogEntry) error {
	r.entries = append(r.entries, entry)

	return nil
}

func (r *capturingAuthLogRepo) CountByTypeAndIPHashSince(_ context.Context, eventType entity.AuthEventType, ipHash string, since int64) (int64, error) {
	r.lastType = eventType
	r.lastIPHash = ipHash
	r.lastSince = since

	return r.count, nil
}

func (r *capturingAuthLogRepo) CountByTypeAndEmailHashSince(_ context.Context, eventType entity.AuthEventType, emailHash string, since int64) (int64, error) {
	r.lastType = eventType
	r.lastEmailHash = emailHash
	r.lastSince = since

	return r.count, nil
}

func auditConfig(hashKey string) *config.Config {
	return &config.Config{Auth: &config.AuthConfig{AuditHashKey: hashKey}}
}

func TestAuditRecorder_Record_HashesPII(t *testing.T) {
	repo := &capturingAuthLogRepo{}
	recorder, err := NewAuditRecorder(auditConfig("audit-key"), repo)
	require.NoError(t, err)

	err = recorder.Record(context.Background(), &service.AuthEvent{
		Type:      entity.AuthEventLoginFailure,
		Email:     "alice@studenti.example.edu",
		IP:        "203.0.113.7",
		UserAgent: "test-agent",
		Details:   map[string]string{"reason": "expired"},
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, entity.AuthEventLoginFailure, entry.Type)
	assert.Equal(t, signature.MACHex("audit-key", "alice@studenti.example.edu"), entry.EmailHash)
	assert.Equal(t, signature.MACHex("audit-key", "203.0.113.7"), entry.IPHash)
	assert.NotContains(t, entry.EmailHash, "@")
	assert.Equal(t, "test-agent", entry.UserAgent)
	assert.JSONEq(t, `{"reason":"expired"}`, entry.Details)
	assert.NotZero(t, entry.CreatedAt)
}

func TestAuditRecorder_Record_EmptyFields(t *testing.T) {
	repo := &capturingAuthLogRepo{}
	recorder, err := NewAuditRecorder(auditConfig("audit-key"), repo)
	require.NoError(t, err)

	err = recorder.Record(context.Background(), &service.AuthEvent{
		Type: entity.AuthEventLogout,
	})
	require.NoError(t, err)

	require.Len(t, repo.entries, 1)
	assert.Empty(t, repo.entries[0].EmailHash)
	assert.Empty(t, repo.entries[0].IPHash)
	assert.Equal(t, "{}", repo.entries[0].Details)
}

func TestAuditRecorder_Counts_UseHashedKeys(t *testing.T) {
	repo := &capturingAuthLogRepo{count: 3}
	recorder, err := NewAuditRecorder(auditConfig("audit-key"), repo)
	require.NoError(t, err)

	n, err := recorder.CountLoginFailuresSince(context.Background(), "203.0.113.7", 1700000000)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, entity.AuthEventLoginFailure, repo.lastType)
	assert.Equal(t, signature.MACHex("audit-key", "203.0.113.7"), repo.lastIPHash)
	assert.Equal(t, int64(1700000000), repo.lastSince)

	n, err = recorder.CountTokenCreatesSince(context.Background(), "alice@studenti.example.edu", 1700000000)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, entity.AuthEventTokenCreate, repo.lastType)
	assert.Equal(t, signature.MACHex("audit-key", "alice@studenti.example.edu"), repo.lastEmailHash)
}

func TestNewAuditRecorder_RequiresKey(t *testing.T) {
	_, err := NewAuditRecorder(&config.Config{}, &capturingAuthLogRepo{})
	assert.Error(t, err)

	_, err = NewAuditRecorder(auditConfig(""), &capturingAuthLogRepo{})
	assert.Error(t, err)
}
