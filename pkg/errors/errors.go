// Package errors provides structured error types for pagecraft.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the editor, the API and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Node paths identifying where in a document a problem was found
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The document core reports four kinds of failure:
//   - INVALID_ARGUMENT: bad command parameters (a caller bug, surfaced to a
//     toolbar as a disabled control)
//   - SCHEMA_VIOLATION: a tree whose shape breaks the node schema
//   - INVARIANT_VIOLATION: a structurally valid edit that breaks layout policy,
//     such as removing the last column
//   - CORRUPT_DOCUMENT: stored JSON that cannot be turned back into a tree
//
// NOT_FOUND and INTERNAL_ERROR are used by the storage and HTTP layers.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidArgument, "column count must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidArgument) {
//	    // disable the toolbar control
//	}
//
//	// Wrap existing errors and attach the node path
//	err := errors.Wrap(errors.ErrCodeCorruptDocument, origErr, "decode node").WithPath("/0/1")
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document core errors
	ErrCodeInvalidArgument    Code = "INVALID_ARGUMENT"
	ErrCodeSchemaViolation    Code = "SCHEMA_VIOLATION"
	ErrCodeInvariantViolation Code = "INVARIANT_VIOLATION"
	ErrCodeCorruptDocument    Code = "CORRUPT_DOCUMENT"

	// Storage and transport errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code, an optional node path and an
// optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Path    string // Node path inside the document, e.g. "/0/2" (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (at %s)", msg, e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithPath sets the node path and returns e for chaining.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
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

// InvalidArgument is shorthand for New(ErrCodeInvalidArgument, ...).
func InvalidArgument(format string, args ...any) *Error {
	return New(ErrCodeInvalidArgument, format, args...)
}

// SchemaViolation is shorthand for New(ErrCodeSchemaViolation, ...).WithPath(path).
func SchemaViolation(path, format string, args ...any) *Error {
	return New(ErrCodeSchemaViolation, format, args...).WithPath(path)
}

// InvariantViolation is shorthand for New(ErrCodeInvariantViolation, ...).
func InvariantViolation(format string, args ...any) *Error {
	return New(ErrCodeInvariantViolation, format, args...)
}

// CorruptDocument is shorthand for New(ErrCodeCorruptDocument, ...).WithPath(path).
func CorruptDocument(path, format string, args ...any) *Error {
	return New(ErrCodeCorruptDocument, format, args...).WithPath(path)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
// Only the outermost *Error is consulted.
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

// GetPath extracts the node path from the first *Error in the chain that
// carries one. Returns empty string if none does.
func GetPath(err error) string {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return ""
		}
		if e.Path != "" {
			return e.Path
		}
		err = e.Cause
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Path != "" {
			return fmt.Sprintf("%s (at %s)", e.Message, e.Path)
		}
		return e.Message
	}
	return err.Error()
}
