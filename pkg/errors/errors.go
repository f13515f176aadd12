// Package errors provides structured error types for HexGlobe.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (fail fast, never retried)
//   - NOT_*: Resource or relationship not found
//   - GEOMETRY_UNAVAILABLE: Grid index lookups that failed and may succeed on retry
//   - LAYOUT_CONFLICT, CENTER_MISMATCH: Non-fatal layout findings, recorded as data
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidCell, "not a valid cell: %q", id)
//	if errors.Is(err, errors.ErrCodeInvalidCell) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeGeometryUnavailable, origErr, "boundary of %s", id)
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidCell       Code = "INVALID_CELL"
	ErrCodeInvalidResolution Code = "INVALID_RESOLUTION"
	ErrCodeInvalidExtent     Code = "INVALID_EXTENT"
	ErrCodeInvalidCoordinate Code = "INVALID_COORDINATE"
	ErrCodeInvalidProperty   Code = "INVALID_PROPERTY"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	// Resource errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeNotAdjacent Code = "NOT_ADJACENT"

	// Grid index errors
	ErrCodeGeometryUnavailable Code = "GEOMETRY_UNAVAILABLE"

	// Layout findings
	ErrCodeLayoutConflict Code = "LAYOUT_CONFLICT"
	ErrCodeCenterMismatch Code = "CENTER_MISMATCH"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsRetryable reports whether err is a transient grid index failure.
// Only GEOMETRY_UNAVAILABLE is retryable; validation failures never are.
func IsRetryable(err error) bool {
	return Is(err, ErrCodeGeometryUnavailable)
}

// Geometry wraps a failed grid index lookup as GEOMETRY_UNAVAILABLE.
// A nil cause yields nil. Errors that already carry a code and context
// cancellations are returned unchanged.
func Geometry(cause error, op string, cell string) error {
	if cause == nil {
		return nil
	}
	if GetCode(cause) != "" || errors.Is(cause, context.Canceled) || errors.Is(cause, context.DeadlineExceeded) {
		return cause
	}
	return Wrap(ErrCodeGeometryUnavailable, cause, "%s %s", op, cell)
}
