package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"oj/config"
	"oj/internal/delivery/http/validator"
	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuthConfig(env string) *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = env

	return cfg
}

func newEchoContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validator.New()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set("User-Agent", "test-agent")
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func assertErrorKind(t *testing.T, err error, kind domainerrors.Kind) {
	t.Helper()

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, kind, appErr.Kind())
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("cookie %s not set", name)

	return nil
}

func TestAuthHandler_RequestLink(t *testing.T) {
	uc := &fakeAuthUsecase{
		requestLinkOut: &usecase.RequestLinkOutput{MagicLink: "https://oj.example.edu/auth/continue?token=abc"},
	}
	handler := NewAuthHandler(uc, &fakeCodec{}, testAuthConfig("dev"))

	c, rec := newEchoContext(http.MethodPost, "/api/v1/auth/requestLink",
		`{"email":"alice@studenti.example.edu","captchaToken":"tok"}`)

	require.NoError(t, handler.RequestLink(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":true`)
	assert.Contains(t, rec.Body.String(), "token=abc")
	assert.Equal(t, "alice@studenti.example.edu", uc.lastRequestLink.Email)
	assert.Equal(t, "tok", uc.lastRequestLink.CaptchaToken)
	assert.Equal(t, "test-agent", uc.lastRequestLink.UserAgent)
	assert.NotEmpty(t, uc.lastRequestLink.IP)
}

func TestAuthHandler_RequestLink_MissingEmail(t *testing.T) {
	uc := &fakeAuthUsecase{}
	handler := NewAuthHandler(uc, &fakeCodec{}, testAuthConfig("dev"))

	c, _ := newEchoContext(http.MethodPost, "/api/v1/auth/requestLink", `{}`)

	err := handler.RequestLink(c)
	assertErrorKind(t, err, domainerrors.KindInvalidArgument)
	assert.Zero(t, uc.requestLinkCalls)
}

func TestAuthHandler_Verify_SetsSessionCookie(t *testing.T) {
	user := &entity.User{
		ID:       uuid.New(),
		Email:    "alice@studenti.example.edu",
		Slug:     "alice",
		IsActive: true,
	}
	uc := &fakeAuthUsecase{
		verifyOut: &usecase.VerifyOutput{User: user, SessionID: "sid:alice@studenti.example.edu"},
	}
	handler := NewAuthHandler(uc, &fakeCodec{ttl: 7 * 24 * time.Hour}, testAuthConfig("dev"))

	c, rec := newEchoContext(http.MethodPost, "/api/v1/auth/verify", `{"token":"abc"}`)

	require.NoError(t, handler.Verify(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc", uc.lastVerify.Token)
	assert.Contains(t, rec.Body.String(), `"slug":"alice"`)

	cookie := findCookie(t, rec, "sid")
	assert.Equal(t, "sid:alice@studenti.example.edu", cookie.Value)
	assert.Equal(t, int(7*24*time.Hour/time.Second), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
	assert.False(t, cookie.Secure)
}

func TestAuthHandler_Verify_QueryToken(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "alice@studenti.example.edu", Slug: "alice", IsActive: true}
	uc := &fakeAuthUsecase{
		verifyOut: &usecase.VerifyOutput{User: user, SessionID: "sid:alice@studenti.example.edu"},
	}
	handler := NewAuthHandler(uc, &fakeCodec{ttl: time.Hour}, testAuthConfig("dev"))

	c, rec := newEchoContext(http.MethodGet, "/api/v1/auth/verify?token=from-link", "")

	require.NoError(t, handler.Verify(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "from-link", uc.lastVerify.Token)
}

func TestAuthHandler_Verify_Unauthenticated(t *testing.T) {
	uc := &fakeAuthUsecase{verifyErr: domainerrors.ErrUnauthenticated.WrapMessage("token expired")}
	handler := NewAuthHandler(uc, &fakeCodec{}, testAuthConfig("dev"))

	c, rec := newEchoContext(http.MethodPost, "/api/v1/auth/verify", `{"token":"stale"}`)

	err := handler.Verify(c)
	assertErrorKind(t, err, domainerrors.KindUnauthenticated)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAuthHandler_ProductionCookieIsSecure(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "alice@studenti.example.edu", Slug: "alice", IsActive: true}
	uc := &fakeAuthUsecase{
		verifyOut: &usecase.VerifyOutput{User: user, SessionID: "sid:alice@studenti.example.edu"},
	}
	handler := NewAuthHandler(uc, &fakeCodec{ttl: time.Hour}, testAuthConfig("prod"))

	c, rec := newEchoContext(http.MethodPost, "/api/v1/auth/verify", `{"token":"abc"}`)

	require.NoError(t, handler.Verify(c))
	assert.True(t, findCookie(t, rec, "sid").Secure)
}

func TestAuthHandler_Logout(t *testing.T) {
	uc := &fakeAuthUsecase{}
	handler := NewAuthHandler(uc, &fakeCodec{ttl: time.Hour}, testAuthConfig("dev"))

	c, rec := newEchoContext(http.MethodPost, "/api/v1/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "sid", Value: "sid:alice@studenti.example.edu"})

	require.NoError(t, handler.Logout(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, uc.logoutInputs, 1)
	assert.Equal(t, "alice@studenti.example.edu", uc.logoutInputs[0].Email)

	cookie := findCookie(t, rec, "sid")
	assert.Empty(t, cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestAuthHandler_Logout_WithoutSession(t *testing.T) {
	uc := &fakeAuthUsecase{}
	handler := NewAuthHandler(uc, &fakeCodec{ttl: time.Hour}, testAuthConfig("dev"))

	c, rec := newEchoContext(http.MethodPost, "/api/v1/auth/logout", "")

	require.NoError(t, handler.Logout(c))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.Len(t, uc.logoutInputs, 1)
	assert.Empty(t, uc.logoutInputs[0].Email)
}
