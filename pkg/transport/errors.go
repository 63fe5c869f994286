package transport

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by the middleware.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrEmptyResponse is returned when a transport answers with neither a
	// response nor an error.
	ErrEmptyResponse = errors.New("empty transport response")
)

// ErrorClass represents a classification of transport faults.
type ErrorClass string

const (
	// ErrorClassClient represents rejected, malformed calls.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents marketplace-side failures.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents calls refused for exceeding a rate.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassQuota represents calls blocked because the daily call
	// quota is exhausted.
	ErrorClassQuota ErrorClass = "quota"

	// ErrorClassNetwork represents network, timeout and serialization faults.
	ErrorClassNetwork ErrorClass = "network"
)

// Error is a transport fault: the call did not produce a response.
type Error struct {
	Call    string
	Class   ErrorClass
	Message string
	Err     error
}

// NewError wraps err as a transport fault of the given class.
func NewError(call string, class ErrorClass, err error) *Error {
	return &Error{Call: call, Class: class, Err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "call failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("transport %s error (%s): %s: %v", e.Class, e.Call, msg, e.Err)
	}
	return fmt.Sprintf("transport %s error (%s): %s", e.Class, e.Call, msg)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassOf classifies err. Faults that do not carry a class are treated as
// network faults; context cancellation has no class.
func ClassOf(err error) ErrorClass {
	if err == nil {
		return ""
	}
	var tErr *Error
	if errors.As(err, &tErr) {
		return tErr.Class
	}
	if errors.Is(err, context.Canceled) {
		return ""
	}
	return ErrorClassNetwork
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassClient, ErrorClassQuota:
		// retrying cannot succeed and burns call quota
		return false
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		return false
	}
}
