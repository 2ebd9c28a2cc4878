package swiggy

import (
	"errors"
	"fmt"
)

// Failure classes of the upstream collaborators. An empty order history is
// not a failure.
var (
	ErrBlocked      = errors.New("request blocked by upstream security")
	ErrUnauthorized = errors.New("session expired or invalid token")
	ErrMalformed    = errors.New("malformed upstream response")
	ErrNetwork      = errors.New("network failure")
	ErrRejected     = errors.New("request rejected by upstream")
	ErrInvalidInput = errors.New("invalid input")
)

// UpstreamError is a classified failure. errors.Is matches both its Kind and
// the underlying error.
type UpstreamError struct {
	Kind    error
	Status  int // HTTP status, 0 when no response was received
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(kind error, status int, format string, args ...any) *UpstreamError {
	return &UpstreamError{Kind: kind, Status: status, Message: fmt.Sprintf(format, args...)}
}
