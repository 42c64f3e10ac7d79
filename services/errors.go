package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures so callers can render user-facing messages
// without inspecting stack traces.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindConflict     ErrorKind = "CONFLICT"
	KindInvalidState ErrorKind = "INVALID_STATE"
	KindUnauthorized ErrorKind = "UNAUTHORIZED"
	KindValidation   ErrorKind = "VALIDATION_ERROR"
)

// Error is the typed result every engine operation returns on failure.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ErrNotFound builds a NotFound error.
func ErrNotFound(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// ErrConflict builds a Conflict error.
func ErrConflict(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

// ErrInvalidState builds an InvalidState error.
func ErrInvalidState(format string, args ...interface{}) *Error {
	return newError(KindInvalidState, format, args...)
}

// ErrUnauthorized builds an Unauthorized error.
func ErrUnauthorized(format string, args ...interface{}) *Error {
	return newError(KindUnauthorized, format, args...)
}

// ErrValidation builds a ValidationError.
func ErrValidation(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

// KindOf extracts the ErrorKind from err, or empty string for untyped errors.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
