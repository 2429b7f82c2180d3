package api

import (
	"errors"
	"fmt"

	"bookctl/internal/core"
)

// ErrNoToken is returned when a call is attempted before InstallToken.
// It signals a caller-ordering bug; no request is issued.
var ErrNoToken = errors.New("no access token installed")

// APIError is a non-2xx response from the backend. Message is the
// backend's {message} field, or a status-derived fallback when the body
// carried none.
type APIError struct {
	Status  int
	Message string
	// Conflict holds the decoded scheduling-conflict payload when the
	// backend attached one. Callers currently surface only Message.
	Conflict *core.ConflictInfo
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

// TransportError means the request could not be completed at all:
// connectivity loss, DNS failure, a cancelled context. No response was
// received, so nothing can be said about server state.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError is malformed JSON on an otherwise successful response. The
// operation fails, but no cache or server state was touched.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
