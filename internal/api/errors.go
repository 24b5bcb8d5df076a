package api

import (
	"errors"
	"fmt"
)

// APIError is a response the backend answered with a non-2xx status. Message
// holds whatever the server said about the failure: the FastAPI "detail"
// field when present, then "message", then a synthesized status line.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NetworkError is a request that never produced a response: connection
// refused, DNS failure, timeout.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: unable to reach the server (%s): %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ErrValidation marks client-side form failures that must never reach the
// network. internal/forms wraps its errors with it.
var ErrValidation = errors.New("validation failed")

// IsAPIError reports whether err carries a server-provided failure message.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// IsNetworkError reports whether err is a transport-level failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
