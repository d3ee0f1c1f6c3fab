// Package xnet implements the Xbox Network side of the authentication
// pipeline: exchanging an RPS ticket for a user token and exchanging user,
// device, and title tokens for an XSTS token.
package xnet

import (
	"errors"
	"fmt"
	"net/http"
)

// Known XErr codes returned by the XSTS authorize endpoint.
const (
	// XErrNoXboxAccount means the Microsoft account has no Xbox profile.
	XErrNoXboxAccount = 2148916233
	// XErrCountryUnavailable means Xbox Live is unavailable in the account's country.
	XErrCountryUnavailable = 2148916235
	// XErrAdultVerificationNeeded and XErrAdultVerificationPending mean the
	// account needs adult verification (South Korea).
	XErrAdultVerificationNeeded  = 2148916236
	XErrAdultVerificationPending = 2148916237
	// XErrChildAccount means the account belongs to a minor and the exchange
	// was rejected; supplying a device token unlocks it.
	XErrChildAccount = 2148916238
)

// xerrMessages maps known XErr codes to actionable messages.
var xerrMessages = map[int64]string{
	XErrNoXboxAccount:            "this Microsoft account has no Xbox profile",
	XErrCountryUnavailable:       "Xbox Live is not available in this account's country",
	XErrAdultVerificationNeeded:  "the account needs adult verification",
	XErrAdultVerificationPending: "the account needs adult verification",
	XErrChildAccount:             "the account belongs to a minor; child and teen accounts require a device token to complete the exchange",
}

// ExchangeError represents a rejected token exchange.
type ExchangeError struct {
	// Message is a human-readable description of the failure.
	Message string `json:"message"`
	// StatusCode is the HTTP status code returned by the service.
	StatusCode int `json:"status_code"`
	// XErr is the Xbox error code extracted from the response body, or zero.
	XErr int64 `json:"xerr,omitempty"`
	// Body is the raw response body for diagnostics.
	Body string `json:"body,omitempty"`
	// Cause is the underlying error, if any.
	Cause error `json:"-"`
}

// Error returns a string representation of the exchange error.
func (e *ExchangeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("EXCHANGE_FAILURE: %s (caused by: %v)", e.Message, e.Cause)
	}
	if e.XErr != 0 {
		return fmt.Sprintf("EXCHANGE_FAILURE: %s (XErr %d)", e.Message, e.XErr)
	}
	return fmt.Sprintf("EXCHANGE_FAILURE: %s", e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As chains.
func (e *ExchangeError) Unwrap() error {
	return e.Cause
}

// IsExchangeError checks whether err is (or wraps) an exchange error.
func IsExchangeError(err error) bool {
	var exchangeErr *ExchangeError
	return errors.As(err, &exchangeErr)
}

// ErrTitleTokenRequiresDevice rejects an exchange that pairs a title token
// with no device token. The validation runs before any network call.
var ErrTitleTokenRequiresDevice = &ExchangeError{
	Message:    "a title token is only valid together with a device token",
	StatusCode: http.StatusBadRequest,
}

// newExchangeError classifies a non-2xx exchange response. When the body
// carries a known XErr code, the message names the actual cause; otherwise
// it keeps the generic hint that minor accounts need a device token, which
// is the most common rejection in practice.
func newExchangeError(statusCode int, xerr int64, body string) *ExchangeError {
	message := "the token exchange was rejected; note that child and teen accounts require a device token"
	if known, ok := xerrMessages[xerr]; ok {
		message = known
	}
	return &ExchangeError{
		Message:    message,
		StatusCode: statusCode,
		XErr:       xerr,
		Body:       body,
	}
}
