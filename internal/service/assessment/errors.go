package assessment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAnswerValue   = errors.New("invalid answer value")
	ErrMissingRequiredField = errors.New("missing required field")
	ErrNotFound             = errors.New("assessment not found")
	ErrInvalidRange         = errors.New("invalid summary range")
)

// ValidationError reports which input field was rejected. It matches its Kind
// with errors.Is, so callers can branch on ErrInvalidAnswerValue or
// ErrMissingRequiredField without inspecting the field.
type ValidationError struct {
	Kind   error
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Field)
	}
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Kind }

func invalidAnswer(field, reason string) error {
	return &ValidationError{Kind: ErrInvalidAnswerValue, Field: field, Reason: reason}
}

// MissingField builds the error returned when a required request field is
// absent. Other submission paths reuse it.
func MissingField(field string) error {
	return &ValidationError{Kind: ErrMissingRequiredField, Field: field}
}
