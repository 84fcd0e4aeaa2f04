package services

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials   = errors.New("unable to log in with provided credentials")
	ErrAccountDisabled      = errors.New("user account is disabled")
	ErrAccountNotRegistered = errors.New("no account is registered with this phone number")
	ErrEmailNotVerified     = errors.New("email address is not verified")
	ErrPhoneNotVerified     = errors.New("phone number is not verified")
	ErrForbidden            = errors.New("you do not have permission to perform this action")
)

// NonFieldErrors is the Fields key for errors not tied to one input field.
const NonFieldErrors = "non_field_errors"

// ValidationError carries user-visible messages keyed by input field.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return strings.Join(parts, "; ")
}
