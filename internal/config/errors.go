package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting holds an unacceptable value.
	ErrValidationFailed = errors.New("validation failed")

	// ErrDecode indicates the merged layers could not be decoded.
	ErrDecode = errors.New("config decode failed")
)

// ValidationError describes a single invalid setting.
type ValidationError struct {
	Path    string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
