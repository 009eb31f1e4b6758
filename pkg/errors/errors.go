// Package errors defines the coded errors returned throughout cropkit.
//
// Every failure the editor reports carries a [Code] so callers can branch on
// the class of failure without matching message text. The editing engine
// itself has three failure classes:
//
//   - IMAGE_LOAD_FAILED: the source was unreachable or could not be decoded
//   - BACKGROUND_REMOVAL_FAILED: the external removal call failed
//   - CANVAS_UNAVAILABLE: a drawing surface could not be allocated or encoded
//
// The remaining codes cover validation, editor state and transport.
//
//	err := errors.Wrap(errors.ErrCodeImageLoad, cause, "decode %s", path)
//	if errors.Is(err, errors.ErrCodeImageLoad) {
//	    fmt.Println(errors.UserMessage(err))
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error.
type Code string

const (
	ErrCodeImageLoad         Code = "IMAGE_LOAD_FAILED"
	ErrCodeBackgroundRemoval Code = "BACKGROUND_REMOVAL_FAILED"
	ErrCodeCanvasUnavailable Code = "CANVAS_UNAVAILABLE"

	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// ErrCodeInvalidState rejects an operation the editor's current mode
	// does not allow, e.g. applying a crop outside crop mode.
	ErrCodeInvalidState Code = "INVALID_STATE"

	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error with a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return err != nil && GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// UserMessage renders err for display: messages of the chain joined by
// colons, without codes.
func UserMessage(err error) string {
	var e *Error
	switch {
	case err == nil:
		return ""
	case !errors.As(err, &e):
		return err.Error()
	case e.Cause != nil:
		return e.Message + ": " + UserMessage(e.Cause)
	default:
		return e.Message
	}
}
