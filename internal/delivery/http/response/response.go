// Package response renders API bodies. Errors use RFC 7807 problem
// documents; successes are plain JSON resources rendered by the handlers.
package response

import (
	"net/http"

	domainerrors "oj/internal/domain/errors"

	"github.com/labstack/echo/v4"
)

// ContentTypeProblem is the media type for problem documents.
const ContentTypeProblem = "application/problem+json"

// Problem is the error body shape. GRPCStatus carries the machine-readable
// error kind alongside the HTTP mapping.
type Problem struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Status     int    `json:"status"`
	Detail     string `json:"detail,omitempty"`
	GRPCStatus string `json:"grpc_status"`
}

// WriteProblem renders an AppError as a problem document.
func WriteProblem(c echo.Context, appErr domainerrors.AppError) error {
	return writeProblem(c, Problem{
		Type:       "about:blank",
		Title:      appErr.Title(),
		Status:     appErr.HTTPCode(),
		Detail:     appErr.Details(),
		GRPCStatus: string(appErr.Kind()),
	})
}

// WriteStatusProblem renders a bare HTTP status as a problem document, for
// errors that never passed through the application's taxonomy.
func WriteStatusProblem(c echo.Context, status int, detail string) error {
	kind := domainerrors.KindInternal
	if status < http.StatusInternalServerError {
		kind = domainerrors.KindInvalidArgument
	}

	return writeProblem(c, Problem{
		Type:       "about:blank",
		Title:      http.StatusText(status),
		Status:     status,
		Detail:     detail,
		GRPCStatus: string(kind),
	})
}

func writeProblem(c echo.Context, p Problem) error {
	c.Response().Header().Set(echo.HeaderContentType, ContentTypeProblem)

	return c.JSON(p.Status, p)
}
