// Package live implements the Microsoft Live side of the Xbox authentication
// pipeline: pre-auth scraping of the login page, credential submission, and
// standard OAuth token grants against login.live.com.
package live

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a classified failure of a Live authentication step.
type Error struct {
	// Code is a stable machine-readable failure code.
	Code string `json:"code"`
	// Message is a human-readable description of the failure.
	Message string `json:"message"`
	// StatusCode is the HTTP status code associated with the failure.
	StatusCode int `json:"status_code"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns a string representation of the Live error.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Base Live error values. Wrap them with NewError to attach a cause.
var (
	// ErrPreAuth indicates the expected markers could not be matched in the
	// login page. The upstream page structure changed; not retryable.
	ErrPreAuth = &Error{
		Code:       "PRE_AUTH_ERROR",
		Message:    "could not match required pre-auth parameters",
		StatusCode: http.StatusBadRequest,
	}

	// ErrInvalidCredentials indicates the credential submission was rejected.
	// The upstream service does not distinguish a bad password from an
	// account with 2FA enabled.
	ErrInvalidCredentials = &Error{
		Code:       "INVALID_CREDENTIALS_OR_2FA_ENABLED",
		Message:    "the authentication has failed",
		StatusCode: http.StatusUnauthorized,
	}

	// ErrMissingHashParameters indicates a redirect was returned but its
	// Location header carried no token fragment.
	ErrMissingHashParameters = &Error{
		Code:       "MISSING_HASH_PARAMETERS",
		Message:    "the authentication has failed",
		StatusCode: http.StatusUnauthorized,
	}

	// ErrUnauthorizedActivity indicates the account is behind an activity
	// confirmation wall. Detection is heuristic and advisory only.
	ErrUnauthorizedActivity = &Error{
		Code:       "UNAUTHORIZED_ACTIVITY",
		Message:    "activity confirmation required",
		StatusCode: http.StatusUnauthorized,
	}
)

// NewError derives a new error from a base error value, attaching a cause.
func NewError(baseErr *Error, cause error) *Error {
	return &Error{
		Code:       baseErr.Code,
		Message:    baseErr.Message,
		StatusCode: baseErr.StatusCode,
		Cause:      cause,
	}
}

// IsError checks whether err is (or wraps) a Live error.
func IsError(err error) bool {
	var liveErr *Error
	return errors.As(err, &liveErr)
}

// IsCode checks whether err is a Live error carrying the given code.
func IsCode(err error, code string) bool {
	var liveErr *Error
	if errors.As(err, &liveErr) {
		return liveErr.Code == code
	}
	return false
}

// RequestError represents a transport-level failure: a network error, a
// timeout, or a non-2xx response not otherwise classified. It carries the
// raw response for diagnostics.
type RequestError struct {
	// URL is the request target.
	URL string `json:"url"`
	// StatusCode is the HTTP status code, or zero for network failures.
	StatusCode int `json:"status_code"`
	// Body is the raw response body, when one was received.
	Body string `json:"body,omitempty"`
	// Cause is the underlying transport error, if any.
	Cause error `json:"-"`
}

// Error returns a string representation of the request error.
func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.Cause)
	}
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *RequestError) Unwrap() error {
	return e.Cause
}
