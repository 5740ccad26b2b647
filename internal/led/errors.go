package led

import (
	"errors"
	"fmt"
)

// ValidationError reports a command or config value outside its range
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ParseError reports a device reply that could not be decoded
type ParseError struct {
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for error chain inspection
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *ParseError {
	return &ParseError{Message: message, Err: err}
}

// ErrNotConnected is returned by operations that need a prior Connect
var ErrNotConnected = errors.New("controller is not connected")

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var p *ParseError
	return errors.As(err, &p)
}
