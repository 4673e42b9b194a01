package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling (OCP compliance).
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is(). Every typed error below matches
// exactly one of them.
var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrConversion      = errors.New("conversion failed")
	ErrDecode          = errors.New("decode failed")
	ErrIO              = errors.New("storage unavailable")
	ErrBusy            = errors.New("operation already in progress")

	// ErrNothingToExport is returned by export operations on empty content.
	// It is a signal rather than a failure and carries no status code.
	ErrNothingToExport = errors.New("nothing to export")
)

// Simple message-carrying error types
type (
	// NotFoundError indicates a resource (slot, session, snippet) was not found.
	// For a content slot it means "nothing to restore", not a failure.
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates invalid input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// BusyError is returned when a persist is attempted while another one
	// is still in flight for the same session.
	BusyError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *BusyError) Error() string         { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *BusyError) StatusCode() int         { return http.StatusConflict }

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *BusyError) Is(target error) bool         { return target == ErrBusy }

// UnsupportedTypeError rejects an upload whose declared media type is outside
// the accepted set. The file bytes are never decoded in that case.
type UnsupportedTypeError struct {
	FileName     string
	DeclaredType string
}

func (e *UnsupportedTypeError) Error() string {
	declared := e.DeclaredType
	if declared == "" {
		declared = "unknown"
	}
	return fmt.Sprintf("unsupported file type %q for %s: only text, markdown, HTML or Word (.docx) files are accepted", declared, e.FileName)
}

func (e *UnsupportedTypeError) StatusCode() int       { return http.StatusUnsupportedMediaType }
func (e *UnsupportedTypeError) Is(target error) bool { return target == ErrUnsupportedType }

// ConversionError wraps a failure to turn uploaded bytes into content,
// typically an invalid Word document.
type ConversionError struct {
	FileName string
	Err      error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s: %v", e.FileName, e.Err)
}

func (e *ConversionError) Unwrap() error         { return e.Err }
func (e *ConversionError) StatusCode() int       { return http.StatusUnprocessableEntity }
func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// DecodeError reports encoded content that is not valid base64 or whose
// payload is not valid UTF-8.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode content: %s: %v", e.Reason, e.Err)
	}
	return "decode content: " + e.Reason
}

func (e *DecodeError) Unwrap() error         { return e.Err }
func (e *DecodeError) StatusCode() int       { return http.StatusUnprocessableEntity }
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// IOError wraps a transient storage failure. Callers may retry.
type IOError struct {
	Op   string // exists, load, save
	Slot string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s slot %q: %v", e.Op, e.Slot, e.Err)
}

func (e *IOError) Unwrap() error         { return e.Err }
func (e *IOError) StatusCode() int       { return http.StatusServiceUnavailable }
func (e *IOError) Is(target error) bool { return target == ErrIO }

// Retryable reports whether the failed operation may be retried.
func (e *IOError) Retryable() bool { return true }

// IsRetryable reports whether err (or anything it wraps) is a retryable
// storage failure. NotFound and malformed-input errors are not.
func IsRetryable(err error) bool {
	var r interface{ Retryable() bool }
	return errors.As(err, &r) && r.Retryable()
}
