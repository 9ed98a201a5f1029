// Package errs defines the typed error results returned by the domain
// registries. The dispatch layer renders these as friendly ephemeral
// replies; anything else is an unexpected internal failure.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies a category of failure.
type Code string

const (
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeAlreadyOpen       Code = "ALREADY_OPEN"
	CodeAlreadyClosed     Code = "ALREADY_CLOSED"
	CodeNotEnded          Code = "NOT_ENDED"
	CodeNoParticipants    Code = "NO_PARTICIPANTS"
	CodeNoActiveTimer     Code = "NO_ACTIVE_TIMER"
	CodeCollaboratorError Code = "COLLABORATOR_ERROR"
)

// Error is a structured error carrying a Code the caller can branch on.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches two *Error values by Code, so sentinel comparisons like
// errors.Is(err, errs.NotFound("")) work regardless of message text.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

func newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) *Error {
	return newf(CodeInvalidArgument, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newf(CodeNotFound, format, args...)
}

func AlreadyOpen(format string, args ...any) *Error {
	return newf(CodeAlreadyOpen, format, args...)
}

func AlreadyClosed(format string, args ...any) *Error {
	return newf(CodeAlreadyClosed, format, args...)
}

func NotEnded(format string, args ...any) *Error {
	return newf(CodeNotEnded, format, args...)
}

func NoParticipants(format string, args ...any) *Error {
	return newf(CodeNoParticipants, format, args...)
}

func NoActiveTimer(format string, args ...any) *Error {
	return newf(CodeNoActiveTimer, format, args...)
}

// Collaborator wraps a failure from an external collaborator (Discord,
// the event bus). These are logged and never roll back domain state.
func Collaborator(message string, cause error) *Error {
	return &Error{Code: CodeCollaboratorError, Message: message, Cause: cause}
}

// CodeOf returns the Code carried by err, or empty if err is not an *Error.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err carries the given Code.
func HasCode(err error, code Code) bool {
	return CodeOf(err) == code
}
