// Package errors provides structured error types for visunn.
//
// Every failure in visunn is local to one navigation attempt. The codes
// below let the CLI, the terminal viewer and the fixture server decide how to
// surface a failure without string matching:
//
//   - INVALID_TAG: a wire tag or path segment could not be decoded
//   - FETCH_FAILED: the snapshot request failed in transport
//   - MALFORMED_SNAPSHOT: the backend answered with an inconsistent snapshot
//   - SUPERSEDED: the result belonged to a request that is no longer current
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidTag, "empty wire tag")
//	if errors.Is(err, errors.ErrCodeInvalidTag) {
//	    // keep the previous snapshot, show "invalid path"
//	}
//
//	err := errors.Wrap(errors.ErrCodeFetch, origErr, "GET %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Navigation errors
	ErrCodeInvalidTag        Code = "INVALID_TAG"
	ErrCodeFetch             Code = "FETCH_FAILED"
	ErrCodeMalformedSnapshot Code = "MALFORMED_SNAPSHOT"
	ErrCodeSuperseded        Code = "SUPERSEDED"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// Codes that the viewer surfaces to the user get a fixed phrase; other
// *Error values return their message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	switch e.Code {
	case ErrCodeInvalidTag:
		return "invalid path: " + e.Message
	case ErrCodeFetch:
		return "could not load module: " + e.Message
	case ErrCodeMalformedSnapshot:
		return "backend sent an invalid module: " + e.Message
	default:
		return e.Message
	}
}

// IsMalformedTag reports whether err is a MalformedTagError.
func IsMalformedTag(err error) bool { return Is(err, ErrCodeInvalidTag) }

// IsFetch reports whether err is a FetchError.
func IsFetch(err error) bool { return Is(err, ErrCodeFetch) }

// IsMalformedSnapshot reports whether err is a MalformedSnapshotError.
func IsMalformedSnapshot(err error) bool { return Is(err, ErrCodeMalformedSnapshot) }

// IsSuperseded reports whether err marks a discarded stale response.
func IsSuperseded(err error) bool { return Is(err, ErrCodeSuperseded) }
