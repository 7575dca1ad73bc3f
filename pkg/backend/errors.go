package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure taxonomy for calls to the inference backend. Handlers and the
// resolver match on these with errors.Is/errors.As; none of them may cross
// the dispatcher boundary unconverted.

// NetworkError means no response was received at all.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("backend unreachable during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError means the call budget elapsed before a response arrived.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("backend timeout during %s: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// HTTPError is a received response with a non-2xx status, or a 2xx envelope
// carrying success:false.
type HTTPError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend %s failed (%d): %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend %s failed with status %d", e.Op, e.StatusCode)
}

func (e *HTTPError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func (e *HTTPError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

func (e *HTTPError) IsRateLimited() bool { return e.StatusCode == http.StatusTooManyRequests }

func (e *HTTPError) IsServer() bool { return e.StatusCode >= 500 }

// ParseError is a malformed JSON body from the interpretation endpoint. The
// resolver downgrades on it instead of surfacing it.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("backend %s returned malformed JSON: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func IsTimeout(err error) bool {
	var t *TimeoutError
	return errors.As(err, &t)
}

func IsNetwork(err error) bool {
	var n *NetworkError
	return errors.As(err, &n)
}

func IsParse(err error) bool {
	var p *ParseError
	return errors.As(err, &p)
}

// UserMessage converts a backend failure into the message shown to the
// caller. Raw transport errors never reach the UI layer.
func UserMessage(err error) string {
	switch {
	case IsTimeout(err):
		return "The assistant service took too long to respond. Please try again."
	case IsNetwork(err):
		return "No internet connection. Only offline commands are available."
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.IsAuth():
			return "Not authorized to use the assistant service."
		case httpErr.IsRateLimited():
			return "Too many requests. Please wait a moment and try again."
		case httpErr.IsNotFound():
			return "The requested information was not found."
		default:
			return "The assistant service reported an error. Please try again."
		}
	}

	return "Failed to process the command."
}
