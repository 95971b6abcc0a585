// Package errors provides structured error types for blastgrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the library packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// Validation of a candidate drill point is NOT reported through this package:
// placement checks return plain result values (see pkg/points.Validation).
// Errors are reserved for operations that can genuinely fail, such as reading
// a project file or writing an export.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - *_FAILED: Output stage failures (render, export)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSettings, "spacing must be positive, got %g", s)
//	if errors.Is(err, errors.ErrCodeInvalidSettings) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open project %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidSettings Code = "INVALID_SETTINGS"
	ErrCodeInvalidPoint    Code = "INVALID_POINT"
	ErrCodeInvalidView     Code = "INVALID_VIEW"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidProject  Code = "INVALID_PROJECT"

	// Placement conflicts
	ErrCodeDuplicatePoint Code = "DUPLICATE_POINT"
	ErrCodePointRejected  Code = "POINT_REJECTED"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodePointNotFound Code = "POINT_NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Output stage errors
	ErrCodeRenderFailed Code = "RENDER_FAILED"
	ErrCodeExportFailed Code = "EXPORT_FAILED"

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

// RejectedError describes a placement or move the point layer refused.
// It carries the id of the conflicting point when the rejection was a duplicate.
type RejectedError struct {
	Reason     string
	Duplicate  bool
	ExistingID string
}

// Error implements the error interface.
func (e *RejectedError) Error() string {
	if e.Duplicate && e.ExistingID != "" {
		return fmt.Sprintf("rejected: %s (existing point %s)", e.Reason, e.ExistingID)
	}
	return "rejected: " + e.Reason
}

// Code returns the error code for this error type.
func (e *RejectedError) Code() Code {
	if e.Duplicate {
		return ErrCodeDuplicatePoint
	}
	return ErrCodePointRejected
}
