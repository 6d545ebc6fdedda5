package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates request payloads tagged with `validate:"..."` and reports the first
// failing field in a readable form.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	first := fieldErrs[0]
	field := strings.ToLower(first.Field())
	switch first.Tag() {
	case "required":
		return &Error{Field: field, Message: field + " is required"}
	case "email":
		return &Error{Field: field, Message: "Invalid email address"}
	case "min":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be at least %s characters", field, first.Param())}
	case "max":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be at most %s characters", field, first.Param())}
	case "oneof":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be one of: %s", field, first.Param())}
	default:
		return &Error{Field: field, Message: field + " is invalid"}
	}
}
