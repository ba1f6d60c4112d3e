package handler

import (
	"net/http"

	"oj/internal/delivery/http/middleware"
	domainerrors "oj/internal/domain/errors"
	"oj/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SubmissionHandler holds dependencies for submission intake handlers.
type SubmissionHandler struct {
	uc usecase.SubmissionUsecase
}

// NewSubmissionHandler is the constructor for SubmissionHandler, injected by Fx.
func NewSubmissionHandler(uc usecase.SubmissionUsecase) *SubmissionHandler {
	return &SubmissionHandler{uc: uc}
}

// SubmitRequest is the submission payload.
type SubmitRequest struct {
	Language string `json:"language" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

// Submit accepts code for a problem and enqueues it for grading.
func (h *SubmissionHandler) Submit(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrUnauthenticated
	}

	var req SubmitRequest
	if err := c.Bind(&req); err != nil {
		return domainerrors.ErrInvalidArgument.WithDetails("malformed request body")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	submission, err := h.uc.Submit(c.Request().Context(), usecase.SubmitInput{
		UserID:    user.ID,
		ProblemID: c.Param("id"),
		Language:  req.Language,
		Code:      req.Code,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	c.Response().Header().Set(echo.HeaderLocation, "/api/v1/submissions/"+submission.ID)

	return c.JSON(http.StatusCreated, toSubmissionResponse(submission))
}

// GetSubmission returns one submission. Only the owner may read it.
func (h *SubmissionHandler) GetSubmission(c echo.Context) error {
	user := middleware.CurrentUser(c)
	if user == nil {
		return domainerrors.ErrUnauthenticated
	}

	submission, err := h.uc.GetSubmission(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	if submission.UserID != user.ID {
		return domainerrors.ErrPermissionDenied.WithDetails("submission belongs to another user")
	}

	return c.JSON(http.StatusOK, toSubmissionResponse(submission))
}
