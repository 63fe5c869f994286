package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned when a range ends before it starts.
	ErrInvalidRange = errors.New("invalid time range")

	// ErrRangeTooLong is returned when a single-call range exceeds the
	// maximum query span.
	ErrRangeTooLong = errors.New("time range exceeds maximum query span")

	// ErrNoAuthenticator is returned by auth operations when the service
	// has no Authenticator.
	ErrNoAuthenticator = errors.New("no authenticator configured")
)

// OperationError wraps any failure of a public operation.
type OperationError struct {
	Operation string
	Input     string
	Mark      string
	Err       error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed (mark %s, input %s): %v", e.Operation, e.Mark, e.Input, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *OperationError) Unwrap() error {
	return e.Err
}

// AuthError wraps failures of the session and token flow.
type AuthError struct {
	Operation string
	Input     string
	Err       error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return fmt.Sprintf("auth %s failed (input %s): %v", e.Operation, e.Input, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *AuthError) Unwrap() error {
	return e.Err
}
