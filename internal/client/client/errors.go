package client

import (
	"errors"

	"github.com/wombguard/wombguard-cli/internal/client/gateway"
)

var (
	ErrUnavailable  = gateway.ErrUnavailable
	ErrUnauthorized = gateway.ErrUnauthorized
	ErrNoUserData   = errors.New("login failed: no user data returned")
)

// RequestError is a failed user-facing operation. Message is what the user
// should read: the backend's detail when it sent one, a generic text
// otherwise.
type RequestError struct {
	Message string
	Err     error
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) Unwrap() error { return e.Err }

// NewRequestError wraps err with the backend detail or fallback.
func NewRequestError(err error, fallback string) *RequestError {
	msg := gateway.DetailOf(err)
	if msg == "" {
		switch {
		case errors.Is(err, ErrUnavailable):
			msg = fallback + ": server unavailable"
		case errors.Is(err, ErrNoUserData):
			msg = err.Error()
		default:
			msg = fallback
		}
	}
	return &RequestError{Message: msg, Err: err}
}
