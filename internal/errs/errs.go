// Package errs provides coded errors for the navigator core.
//
// Every failure that crosses a core boundary (load, drill-down, breadcrumb
// navigation, back, download) carries one of the codes below so that hosts
// can turn it into a local visible state instead of propagating it:
//
//	err := errs.New(errs.ErrCodeInvalidIndex, "index %d outside [0, %d)", i, n)
//	if errs.Is(err, errs.ErrCodeInvalidIndex) {
//	    // keep the current diagram
//	}
package errs

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Navigation errors
	ErrCodeInvalidIndex     Code = "INVALID_INDEX"
	ErrCodeOutOfRange       Code = "OUT_OF_RANGE"
	ErrCodeResolutionFailed Code = "RESOLUTION_FAILED"
	ErrCodeRenderFailure    Code = "RENDER_FAILURE"

	// Input errors
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidContent  Code = "INVALID_CONTENT"
	ErrCodeNotFound        Code = "NOT_FOUND"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
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
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
