// Package validator adapts go-playground/validator to Echo's Validator
// interface.
package validator

import (
	domainerrors "oj/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps a validator.Validate instance for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// New creates the validator used by the Echo server.
func New() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate checks struct tags and converts failures into the application's
// invalid-argument error so the boundary maps them to a 400 problem.
func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return domainerrors.ErrInvalidArgument.WithDetails(err.Error())
	}

	return nil
}
