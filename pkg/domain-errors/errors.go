// Package domainerrors provides coded errors that cross the service boundary.
// Services create them, transport translates them to HTTP statuses. Stores do
// not use this package; they return sentinel errors (pkg/platform/sentinel)
// and services wrap those into coded errors here.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for callers and for HTTP translation.
type Code string

const (
	// CodeInvalidFormat: a vehicle identifier failed canonicalization.
	CodeInvalidFormat Code = "invalid_format"
	// CodeInvalidAmount: a top-up amount is outside the allowed range.
	CodeInvalidAmount Code = "invalid_amount"
	// CodeInsufficientBalance: the wallet cannot cover the requested debit.
	CodeInsufficientBalance Code = "insufficient_balance"
	// CodeFetchFailed: the upstream RC lookup failed or returned garbage.
	CodeFetchFailed Code = "fetch_failed"
	// CodeStoreFailure: durable storage rejected a write; prior state intact.
	CodeStoreFailure Code = "store_failure"

	CodeBadRequest Code = "bad_request"
	CodeNotFound   Code = "not_found"
	CodeInternal   Code = "internal"
)

// Error is a coded domain error. The message is safe for user display.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and display message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the display message from err. Unknown errors map to a
// generic message so internals never leak to clients.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return "internal error"
}

// ToHTTPStatus maps a domain code to the HTTP status the transport layer
// should respond with.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidFormat, CodeInvalidAmount, CodeBadRequest:
		return http.StatusBadRequest
	case CodeInsufficientBalance:
		return http.StatusPaymentRequired
	case CodeNotFound:
		return http.StatusNotFound
	case CodeFetchFailed:
		return http.StatusBadGateway
	case CodeStoreFailure, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
