// Package errors defines the coded errors shared by the linegraph
// libraries, the CLI and the HTTP API.
//
// A [Code] is a stable, machine-readable category. The CLI prints
// [UserMessage]; the API returns the code in its error envelope and maps it
// to an HTTP status.
//
//   - INVALID_*: the caller's input is wrong (coordinates, indices, formats,
//     tolerance, analysis names)
//   - NOT_FOUND, FILE_NOT_FOUND: a named resource does not exist
//   - UNSUPPORTED: a well-formed request the build cannot serve
//   - INTERNAL_ERROR: anything else
//
// Disconnected graphs are not errors. An unreachable target yields an empty
// path and a disconnected graph yields a spanning forest.
//
//	err := errors.New(errors.ErrCodeInvalidIndex, "vertex %d out of range [0, %d)", v, n)
//	if errors.Is(err, errors.ErrCodeInvalidIndex) {
//	    ...
//	}
//	err = errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidIndex     Code = "INVALID_INDEX"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidTolerance Code = "INVALID_TOLERANCE"
	ErrCodeInvalidAnalysis  Code = "INVALID_ANALYSIS"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Invalid reports whether c is one of the INVALID_* codes.
func (c Code) Invalid() bool {
	return strings.HasPrefix(string(c), "INVALID_")
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message: cause". A coded cause contributes only its
// message chain, so the code appears once.
func (e *Error) Error() string {
	return string(e.Code) + ": " + e.chain()
}

func (e *Error) chain() string {
	if e.Cause == nil {
		return e.Message
	}
	var inner *Error
	if errors.As(e.Cause, &inner) && inner == e.Cause {
		return e.Message + ": " + inner.chain()
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err without its code prefix, keeping the messages of
// wrapped causes ("segment 3 start: coordinate must be finite, got NaN").
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if full := err.Error(); strings.HasSuffix(full, e.Error()) {
			return strings.TrimSuffix(full, e.Error()) + e.chain()
		}
		return e.chain()
	}
	return err.Error()
}

// IsInvalid reports whether err carries an INVALID_* code.
func IsInvalid(err error) bool {
	return GetCode(err).Invalid()
}
