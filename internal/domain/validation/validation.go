package validation

import (
	"errors"
	"strings"
)

// Error reports a missing or malformed input field. Callers must not mutate
// state when they receive one.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// New builds a validation error for a field.
func New(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// Required rejects values that are empty after trimming.
// PRE: field names the input being checked
// POST: Returns nil when value has non-space content
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return New(field, "is required")
	}
	return nil
}

// Is reports whether err is, or wraps, a validation error.
func Is(err error) bool {
	var v *Error
	return errors.As(err, &v)
}
