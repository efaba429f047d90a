// Package clierr defines structured error types for bugtrack.
// Errors carry a machine-readable code, a human-readable message,
// and optional details for scripted consumers.
package clierr

import (
	"errors"
	"fmt"
	"strconv"
)

// Error code constants. Uppercase, underscore-separated, stable across minor versions.
const (
	// Domain error kinds raised by the store and lifecycle engine.
	Validation        = "VALIDATION_ERROR"
	TaskNotFound      = "TASK_NOT_FOUND"
	InvalidTransition = "INVALID_TRANSITION"
	Forbidden         = "FORBIDDEN"

	NotLoggedIn          = "NOT_LOGGED_IN"
	InvalidCredentials   = "INVALID_CREDENTIALS"
	UnknownAccount       = "UNKNOWN_ACCOUNT"
	WorkspaceNotFound    = "WORKSPACE_NOT_FOUND"
	WorkspaceExists      = "WORKSPACE_EXISTS"
	InvalidInput         = "INVALID_INPUT"
	ConfirmationRequired = "CONFIRMATION_REQUIRED"
	InternalError        = "INTERNAL_ERROR"
)

// Error represents a structured error with a machine-readable code.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// New creates an Error with the given code and message.
func New(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithDetails returns the error with the given details map attached.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ExitCode returns 2 for InternalError, 1 for all others.
func (e *Error) ExitCode() int {
	if e.Code == InternalError {
		return 2 //nolint:mnd // exit code 2 for internal errors
	}
	return 1
}

// Code returns the code of the first *Error in err's chain, or "".
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Is reports whether err wraps an *Error with the given code.
func Is(err error, code string) bool {
	return err != nil && Code(err) == code
}

// SilentError signals an exit code without additional output.
type SilentError struct {
	Code int
}

// Error implements the error interface.
func (e *SilentError) Error() string { return "exit " + strconv.Itoa(e.Code) }
