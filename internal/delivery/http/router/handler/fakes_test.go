package handler

import (
	"context"
	"strings"
	"time"

	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/usecase"
)

// fakeAuthUsecase is a hand-rolled stub for usecase.AuthUsecase.
type fakeAuthUsecase struct {
	requestLinkOut   *usecase.RequestLinkOutput
	requestLinkErr   error
	lastRequestLink  usecase.RequestLinkInput
	requestLinkCalls int

	verifyOut  *usecase.VerifyOutput
	verifyErr  error
	lastVerify usecase.VerifyInput

	logoutInputs []usecase.LogoutInput

	user *entity.User
}

func (f *fakeAuthUsecase) RequestLink(_ context.Context, input usecase.RequestLinkInput) (*usecase.RequestLinkOutput, error) {
	f.requestLinkCalls++
	f.lastRequestLink = input
	if f.requestLinkErr != nil {
		return nil, f.requestLinkErr
	}

	return f.requestLinkOut, nil
}

func (f *fakeAuthUsecase) Verify(_ context.Context, input usecase.VerifyInput) (*usecase.VerifyOutput, error) {
	f.lastVerify = input
	if f.verifyErr != nil {
		return nil, f.verifyErr
	}

	return f.verifyOut, nil
}

func (f *fakeAuthUsecase) Logout(_ context.Context, input usecase.LogoutInput) error {
	f.logoutInputs = append(f.logoutInputs, input)

	return nil
}

func (f *fakeAuthUsecase) WhoAmI(_ context.Context, email string) (*entity.User, error) {
	if f.user == nil || f.user.Email != email {
		return nil, domainerrors.ErrUnauthenticated
	}

	return f.user, nil
}

// fakeSubmissionUsecase is a hand-rolled stub for usecase.SubmissionUsecase.
type fakeSubmissionUsecase struct {
	submitOut  *entity.Submission
	submitErr  error
	lastSubmit usecase.SubmitInput

	getOut *entity.Submission
	getErr error
}

func (f *fakeSubmissionUsecase) Submit(_ context.Context, input usecase.SubmitInput) (*entity.Submission, error) {
	f.lastSubmit = input
	if f.submitErr != nil {
		return nil, f.submitErr
	}

	return f.submitOut, nil
}

func (f *fakeSubmissionUsecase) GetSubmission(_ context.Context, _ string) (*entity.Submission, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	return f.getOut, nil
}

// fakeCodec signs sessions as "sid:"+email so tests can read them back.
type fakeCodec struct {
	ttl time.Duration
}

func (f *fakeCodec) Encode(email string) (string, error) {
	return "sid:" + email, nil
}

func (f *fakeCodec) Decode(sid string) (*entity.SessionClaims, error) {
	email, ok := strings.CutPrefix(sid, "sid:")
	if !ok {
		return nil, domainerrors.ErrUnauthenticated
	}

	return &entity.SessionClaims{Email: email}, nil
}

func (f *fakeCodec) TTL() time.Duration {
	return f.ttl
}
