package identity

import (
	"errors"
	"fmt"
)

// Error types for startup path resolution. All three are fatal: the node
// process logs the message and exits, it never retries resolution.

// ErrorType represents the category of resolution error that occurred
type ErrorType int

const (
	// ErrTypeInvalidIdentifier indicates a malformed node identifier
	ErrTypeInvalidIdentifier ErrorType = iota
	// ErrTypePathNotFound indicates the resolved record file does not exist
	ErrTypePathNotFound
	// ErrTypeInsufficientArguments indicates no usable startup inputs
	ErrTypeInsufficientArguments
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeInvalidIdentifier:
		return "Invalid Identifier"
	case ErrTypePathNotFound:
		return "Path Not Found"
	case ErrTypeInsufficientArguments:
		return "Insufficient Arguments"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ResolveError represents a failure to resolve a node's record path
type ResolveError struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *ResolveError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ResolveError) Unwrap() error {
	return e.Err
}

// NewInvalidIdentifierError creates an error for a malformed identifier
func NewInvalidIdentifierError(value string, err error) *ResolveError {
	return &ResolveError{
		Type:    ErrTypeInvalidIdentifier,
		Message: fmt.Sprintf("identifier %q is not a valid node identifier", value),
		Err:     err,
	}
}

// NewPathNotFoundError creates an error for a missing record file
func NewPathNotFoundError(path string) *ResolveError {
	return &ResolveError{
		Type:    ErrTypePathNotFound,
		Message: fmt.Sprintf("config file %s does not exist", path),
	}
}

// NewInsufficientArgumentsError creates an error for missing startup inputs
func NewInsufficientArgumentsError() *ResolveError {
	return &ResolveError{
		Type:    ErrTypeInsufficientArguments,
		Message: "no config path or identifier with directory was given",
	}
}

// IsInvalidIdentifier checks if an error is an invalid-identifier error
func IsInvalidIdentifier(err error) bool {
	var resErr *ResolveError
	if errors.As(err, &resErr) {
		return resErr.Type == ErrTypeInvalidIdentifier
	}
	return false
}

// IsPathNotFound checks if an error is a path-not-found error
func IsPathNotFound(err error) bool {
	var resErr *ResolveError
	if errors.As(err, &resErr) {
		return resErr.Type == ErrTypePathNotFound
	}
	return false
}

// IsInsufficientArguments checks if an error is an insufficient-arguments error
func IsInsufficientArguments(err error) bool {
	var resErr *ResolveError
	if errors.As(err, &resErr) {
		return resErr.Type == ErrTypeInsufficientArguments
	}
	return false
}
