package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs validator tags on a request struct.
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// ValidationMessage flattens a validator error into a short client-facing
// message naming the first offending field.
func ValidationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return field + " is required"
		case "email":
			return field + " must be a valid email"
		case "min":
			return field + " is too short"
		case "gt":
			return field + " must be positive"
		}
		return field + " is invalid"
	}
	return "invalid request body"
}

// NormalizeEmail lowercases and trims an email address before it is
// stored or compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
