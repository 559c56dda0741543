package handlers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationFields converts a binding error into a field->message map for
// 422 responses and form redisplay. Non-validator errors (malformed JSON,
// wrong types) collapse into a single catch-all entry.
func validationFields(err error) map[string]string {
	fields := make(map[string]string)

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["_"] = "The request body could not be parsed."
		return fields
	}

	for _, fieldErr := range validationErrors {
		fields[strings.ToLower(fieldErr.Field())] = fieldMessage(fieldErr)
	}
	return fields
}

func fieldMessage(err validator.FieldError) string {
	field := strings.ToLower(err.Field())
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "e164":
		return fmt.Sprintf("The %s must be a valid mobile number in E.164 format.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, err.Param())
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, err.Param())
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
