// Package errors defines the application error taxonomy. Every externally
// visible failure carries exactly one kind; the HTTP layer maps kinds to
// status codes and problem documents at the boundary.
package errors

import (
	"net/http"

	"oj/internal/errors"
)

// Kind is the machine-readable error classification.
type Kind string

const (
	KindInvalidArgument    Kind = "INVALID_ARGUMENT"
	KindFailedPrecondition Kind = "FAILED_PRECONDITION"
	KindUnauthenticated    Kind = "UNAUTHENTICATED"
	KindPermissionDenied   Kind = "PERMISSION_DENIED"
	KindNotFound           Kind = "NOT_FOUND"
	KindResourceExhausted  Kind = "RESOURCE_EXHAUSTED"
	KindInternal           Kind = "INTERNAL"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int   // HTTP status code
	Kind() Kind      // Machine-readable error kind
	Title() string   // Short human-readable title
	Details() string // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode int
	kind     Kind
	title    string
	details  string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, kind Kind, title, details string) *BaseError {
	return &BaseError{
		httpCode: httpCode,
		kind:     kind,
		title:    title,
		details:  details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.title
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// Kind returns the machine-readable error kind
func (e *BaseError) Kind() Kind {
	return e.kind
}

// Title returns the short human-readable title
func (e *BaseError) Title() string {
	return e.title
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy of the error carrying detailed information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode: e.httpCode,
		kind:     e.kind,
		title:    e.title,
		details:  details,
	}
}

// Predefined error values, one per kind. Flows attach context via
// WithDetails or WrapMessage; the kind and status code never change.
var (
	ErrInvalidArgument = NewBaseError(
		http.StatusBadRequest,
		KindInvalidArgument,
		"Invalid argument",
		"",
	)

	ErrFailedPrecondition = NewBaseError(
		http.StatusPreconditionFailed,
		KindFailedPrecondition,
		"Failed precondition",
		"",
	)

	// ErrUnauthenticated is deliberately uniform: token not found, token
	// already used, token expired and session failures all surface as this
	// value so callers cannot distinguish the failure mode.
	ErrUnauthenticated = NewBaseError(
		http.StatusUnauthorized,
		KindUnauthenticated,
		"Unauthenticated",
		"",
	)

	ErrPermissionDenied = NewBaseError(
		http.StatusForbidden,
		KindPermissionDenied,
		"Permission denied",
		"",
	)

	ErrNotFound = NewBaseError(
		http.StatusNotFound,
		KindNotFound,
		"Not found",
		"",
	)

	ErrResourceExhausted = NewBaseError(
		http.StatusTooManyRequests,
		KindResourceExhausted,
		"Rate limit exceeded",
		"",
	)

	ErrInternal = NewBaseError(
		http.StatusInternalServerError,
		KindInternal,
		"Internal error",
		"",
	)
)

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// Kind returns the machine-readable error kind
func (e *DatabaseExecuteError) Kind() Kind {
	return KindInternal
}

// Title returns the short human-readable title
func (e *DatabaseExecuteError) Title() string {
	return "Internal error"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
