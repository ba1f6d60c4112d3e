package handler

import (
	"net/http"
	"testing"

	"oj/internal/delivery/http/middleware"
	"oj/internal/domain/entity"
	domainerrors "oj/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authenticatedContext(c echo.Context, user *entity.User) {
	middleware.SetCurrentUser(c, user)
}

func TestSubmissionHandler_Submit(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "alice@studenti.example.edu", Slug: "alice", IsActive: true}
	uc := &fakeSubmissionUsecase{
		submitOut: &entity.Submission{
			ID:           "sb_0011223344556677",
			UserID:       user.ID,
			ProblemID:    "two-sum",
			Status:       entity.StatusQueued,
			Language:     "cpp23",
			Code:         "int main() {}",
			CodeSizeByte: 13,
			CreatedAt:    1700000000,
			UpdatedAt:    1700000000,
		},
	}
	handler := NewSubmissionHandler(uc)

	c, rec := newEchoContext(http.MethodPost, "/api/v1/problems/two-sum/submissions",
		`{"language":"cpp23","code":"int main() {}"}`)
	c.SetParamNames("id")
	c.SetParamValues("two-sum")
	authenticatedContext(c, user)

	require.NoError(t, handler.Submit(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/api/v1/submissions/sb_0011223344556677", rec.Header().Get(echo.HeaderLocation))
	assert.Equal(t, user.ID, uc.lastSubmit.UserID)
	assert.Equal(t, "two-sum", uc.lastSubmit.ProblemID)
	assert.Contains(t, rec.Body.String(), `"status":"queued"`)
	// The submitted source never travels back to the client.
	assert.NotContains(t, rec.Body.String(), "int main")
}

func TestSubmissionHandler_Submit_RequiresSession(t *testing.T) {
	handler := NewSubmissionHandler(&fakeSubmissionUsecase{})

	c, _ := newEchoContext(http.MethodPost, "/api/v1/problems/two-sum/submissions",
		`{"language":"cpp23","code":"int main() {}"}`)

	err := handler.Submit(c)
	assertErrorKind(t, err, domainerrors.KindUnauthenticated)
}

func TestSubmissionHandler_Submit_MissingFields(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "alice@studenti.example.edu"}
	handler := NewSubmissionHandler(&fakeSubmissionUsecase{})

	c, _ := newEchoContext(http.MethodPost, "/api/v1/problems/two-sum/submissions",
		`{"language":"cpp23"}`)
	authenticatedContext(c, user)

	err := handler.Submit(c)
	assertErrorKind(t, err, domainerrors.KindInvalidArgument)
}

func TestSubmissionHandler_GetSubmission(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "alice@studenti.example.edu"}
	uc := &fakeSubmissionUsecase{
		getOut: &entity.Submission{
			ID:        "sb_0011223344556677",
			UserID:    user.ID,
			ProblemID: "two-sum",
			Status:    entity.StatusAccepted,
			Language:  "c",
		},
	}
	handler := NewSubmissionHandler(uc)

	c, rec := newEchoContext(http.MethodGet, "/api/v1/submissions/sb_0011223344556677", "")
	c.SetParamNames("id")
	c.SetParamValues("sb_0011223344556677")
	authenticatedContext(c, user)

	require.NoError(t, handler.GetSubmission(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"accepted"`)
}

func TestSubmissionHandler_GetSubmission_OtherOwner(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "alice@studenti.example.edu"}
	uc := &fakeSubmissionUsecase{
		getOut: &entity.Submission{
			ID:     "sb_0011223344556677",
			UserID: uuid.New(),
		},
	}
	handler := NewSubmissionHandler(uc)

	c, _ := newEchoContext(http.MethodGet, "/api/v1/submissions/sb_0011223344556677", "")
	c.SetParamNames("id")
	c.SetParamValues("sb_0011223344556677")
	authenticatedContext(c, user)

	err := handler.GetSubmission(c)
	assertErrorKind(t, err, domainerrors.KindPermissionDenied)
}

func TestUserHandler_Me(t *testing.T) {
	user := &entity.User{ID: uuid.New(), Email: "alice@studenti.example.edu", Slug: "alice", IsActive: true}
	handler := NewUserHandler()

	c, rec := newEchoContext(http.MethodGet, "/api/v1/users/me", "")
	authenticatedContext(c, user)

	require.NoError(t, handler.Me(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"alice@studenti.example.edu"`)
}
