package api

import (
	"errors"
	"fmt"
)

// ErrMalformedReply signals a 2xx response whose body does not carry the
// fields the endpoint promises. It is reported instead of guessing.
var ErrMalformedReply = errors.New("malformed reply from server")

// UnauthorizedError is the typed form of an HTTP 401: the session has been
// invalidated (or the login credentials were wrong). The console reacts by
// forcing a logout while keeping the identity around for the next login
// prompt.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	if e.Message == "" {
		return "not authorized"
	}
	return e.Message
}

// CallError covers every other non-success response. Message carries the
// server-provided error text when present, otherwise the HTTP status.
type CallError struct {
	Status  int
	Message string
}

func (e *CallError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}
