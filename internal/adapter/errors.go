package adapter

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredential is reported when the API key is unknown or
	// malformed. The adapter terminates the process on it.
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrAlreadyLocked is returned when the requested lock is held by
	// another device.
	ErrAlreadyLocked = errors.New("resource already locked")
	// ErrMaxAttemptsExceeded is returned once the attempt ceiling is hit.
	ErrMaxAttemptsExceeded = errors.New("max request attempts exceeded")
	// ErrUnexpectedStatus marks a non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrMalformedResponse marks a body that is not a JSON envelope.
	ErrMalformedResponse = errors.New("malformed response body")
)

// APIError is any other business failure reported with status=false.
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: %s", e.Message)
	}
	return fmt.Sprintf("api error %s: %s", e.Code, e.Message)
}
