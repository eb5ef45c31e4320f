package model

import (
	"errors"
	"strings"
)

// ErrInvalidInput marks a metrics record that must not be evaluated.
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes one rejected field.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e FieldError) Error() string { return e.Field + ": " + e.Reason }

// ValidationErrors collects every field problem found in one record.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, len(v))
	for i, fe := range v {
		parts[i] = fe.Error()
	}
	return strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalidInput) match a ValidationErrors value.
func (v ValidationErrors) Is(target error) bool { return target == ErrInvalidInput }

// Fields extracts the field problems from err, if any.
func Fields(err error) []FieldError {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
