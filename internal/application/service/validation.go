package service

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/sangkips/supermarket-api/pkg/apperror"
)

var validate = validator.New()

// fieldErrors collects validation failures in the order they are found.
type fieldErrors []apperror.FieldError

func (f *fieldErrors) add(field, message string) {
	*f = append(*f, apperror.FieldError{Field: field, Message: message})
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperror.NewValidationError(f)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func isEmail(s string) bool {
	return validate.Var(s, "required,email") == nil
}
