package nodeconfig

import (
	"errors"
	"fmt"
)

// Error types for record accessor operations

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeUnknownKey indicates a key that names no record field
	ErrTypeUnknownKey ErrorType = iota
	// ErrTypeMalformedValue indicates a value that cannot be decoded for its field
	ErrTypeMalformedValue
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeUnknownKey:
		return "Unknown Key"
	case ErrTypeMalformedValue:
		return "Malformed Value"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ConfigError represents an error from a record get or set operation.
// Both error types are non-fatal: the failed operation returns the error
// to the caller and the record is left unmodified.
type ConfigError struct {
	Type    ErrorType // Category of error
	Key     string    // Field key involved
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewUnknownKeyError creates an error for a key that names no field
func NewUnknownKeyError(key string) *ConfigError {
	return &ConfigError{
		Type:    ErrTypeUnknownKey,
		Key:     key,
		Message: fmt.Sprintf("no such field %q", key),
	}
}

// NewMalformedValueError creates an error for a value its field cannot decode
func NewMalformedValueError(key, message string, err error) *ConfigError {
	return &ConfigError{
		Type:    ErrTypeMalformedValue,
		Key:     key,
		Message: fmt.Sprintf("field %q: %s", key, message),
		Err:     err,
	}
}

// IsUnknownKey checks if an error is an unknown-key error
func IsUnknownKey(err error) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Type == ErrTypeUnknownKey
	}
	return false
}

// IsMalformedValue checks if an error is a malformed-value error
func IsMalformedValue(err error) bool {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr.Type == ErrTypeMalformedValue
	}
	return false
}
