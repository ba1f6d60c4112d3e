package impl

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"time"

	"oj/config"
	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/domain/repository"
	"oj/internal/domain/service"

	"github.com/google/uuid"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(env string) *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = env
	cfg.Auth = &config.AuthConfig{
		SessionSecret: "session-secret",
		AuditHashKey:  "audit-key",
		AllowedDomain: "studenti.example.edu",
		LinkBaseURL:   "https://oj.example.edu/auth/continue",
		TokenTTL:      5 * time.Minute,
		SessionTTL:    7 * 24 * time.Hour,
		IssueLimit:    5,
		IssueWindow:   time.Hour,
		VerifyLimit:   20,
		VerifyWindow:  time.Hour,
	}

	return cfg
}

// --- fakes ---

type fakeLoginTokenRepo struct {
	tokens   map[string]*entity.LoginToken
	issueErr error
	findErr  error
}

func newFakeLoginTokenRepo() *fakeLoginTokenRepo {
	return &fakeLoginTokenRepo{tokens: make(map[string]*entity.LoginToken)}
}

func (f *fakeLoginTokenRepo) Issue(_ context.Context, email string, ttl time.Duration) (*entity.LoginToken, error) {
	if f.issueErr != nil {
		return nil, f.issueErr
	}

	for value, tok := range f.tokens {
		if tok.Email == email && tok.ConsumedAt == nil {
			delete(f.tokens, value)
		}
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	tok := &entity.LoginToken{
		Token:     hex.EncodeToString(buf),
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now + int64(ttl.Seconds()),
	}
	f.tokens[tok.Token] = tok

	return tok, nil
}

func (f *fakeLoginTokenRepo) Find(_ context.Context, token string) (*entity.LoginToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	tok, ok := f.tokens[token]
	if !ok {
		return nil, repository.ErrTokenNotFound
	}
	copied := *tok

	return &copied, nil
}

func (f *fakeLoginTokenRepo) Consume(_ context.Context, token string) error {
	tok, ok := f.tokens[token]
	if !ok || tok.ConsumedAt != nil {
		return repository.ErrTokenNotFound
	}
	now := time.Now().Unix()
	tok.ConsumedAt = &now

	return nil
}

type fakeUserRepo struct {
	byEmail    map[string]*entity.User
	takenSlugs map[string]bool
	createErr  error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byEmail:    make(map[string]*entity.User),
		takenSlugs: make(map[string]bool),
	}
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			copied := *u

			return &copied, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u

	return &copied, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[user.Email]; exists {
		return repository.ErrUserConflict
	}
	if f.takenSlugs[user.Slug] {
		return repository.ErrUserConflict
	}

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	stored := *user
	f.byEmail[user.Email] = &stored
	f.takenSlugs[user.Slug] = true

	return nil
}

func (f *fakeUserRepo) Activate(_ context.Context, id uuid.UUID) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.IsActive = true

			return nil
		}
	}

	return repository.ErrUserNotFound
}

type fakeAuditRecorder struct {
	events         []*service.AuthEvent
	recordErr      error
	failuresByIP   map[string]int64
	createsByEmail map[string]int64
}

func newFakeAuditRecorder() *fakeAuditRecorder {
	return &fakeAuditRecorder{
		failuresByIP:   make(map[string]int64),
		createsByEmail: make(map[string]int64),
	}
}

func (f *fakeAuditRecorder) Record(_ context.Context, event *service.AuthEvent) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.events = append(f.events, event)
	switch event.Type {
	case entity.AuthEventLoginFailure:
		f.failuresByIP[event.IP]++
	case entity.AuthEventTokenCreate:
		f.createsByEmail[event.Email]++
	}

	return nil
}

func (f *fakeAuditRecorder) CountLoginFailuresSince(_ context.Context, ip string, _ int64) (int64, error) {
	return f.failuresByIP[ip], nil
}

func (f *fakeAuditRecorder) CountTokenCreatesSince(_ context.Context, email string, _ int64) (int64, error) {
	return f.createsByEmail[email], nil
}

func (f *fakeAuditRecorder) eventTypes() []entity.AuthEventType {
	types := make([]entity.AuthEventType, 0, len(f.events))
	for _, e := range f.events {
		types = append(types, e.Type)
	}

	return types
}

// fakeTxManager hands the fakes back through the factory without any
// transactional behavior.
type fakeTxManager struct {
	tokens *fakeLoginTokenRepo
	users  *fakeUserRepo
	logs   repository.AuthLogRepository
}

type fakeRepoFactory struct{ m *fakeTxManager }

func (f *fakeRepoFactory) UserRepo() repository.UserRepository { return f.m.users }

func (f *fakeRepoFactory) LoginTokenRepo() repository.LoginTokenRepository { return f.m.tokens }

func (f *fakeRepoFactory) AuthLogRepo() repository.AuthLogRepository { return f.m.logs }

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(&fakeRepoFactory{m: m})
}

type fakeCodec struct{ ttl time.Duration }

func (f *fakeCodec) Encode(email string) (string, error) {
	return "sid:" + email, nil
}

func (f *fakeCodec) Decode(sid string) (*entity.SessionClaims, error) {
	email, ok := strings.CutPrefix(sid, "sid:")
	if !ok {
		return nil, domainerrors.ErrUnauthenticated
	}

	return &entity.SessionClaims{Email: email, IssuedAt: time.Now().Unix()}, nil
}

func (f *fakeCodec) TTL() time.Duration {
	return f.ttl
}

type fakeCaptcha struct {
	ok     bool
	err    error
	called bool
}

func (f *fakeCaptcha) Verify(_ context.Context, _ string) (bool, error) {
	f.called = true

	return f.ok, f.err
}

type sentMail struct {
	to      string
	subject string
	html    string
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, html string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, html: html})

	return nil
}

type fakeProblemRepo struct {
	problems map[string]*entity.Problem
}

func (f *fakeProblemRepo) FindByID(_ context.Context, id string) (*entity.Problem, error) {
	p, ok := f.problems[id]
	if !ok {
		return nil, repository.ErrProblemNotFound
	}

	return p, nil
}

type fakeSubmissionRepo struct {
	created   []*entity.Submission
	createErr error
}

func (f *fakeSubmissionRepo) Create(_ context.Context, submission *entity.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, submission)

	return nil
}

func (f *fakeSubmissionRepo) FindByID(_ context.Context, id string) (*entity.Submission, error) {
	for _, s := range f.created {
		if s.ID == id {
			return s, nil
		}
	}

	return nil, repository.ErrSubmissionNotFound
}

type fakePublisher struct {
	jobs       []*service.GradingJob
	publishErr error
}

func (f *fakePublisher) PublishGradingJob(_ context.Context, job *service.GradingJob) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.jobs = append(f.jobs, job)

	return nil
}

func (f *fakePublisher) Close() error {
	return nil
}
