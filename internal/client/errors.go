package client

import "fmt"

// ValidationError reports malformed input caught locally, before any request
// is sent to the remote boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// TransportError covers everything that goes wrong at or past the wire:
// network failures, non-2xx statuses, and payloads that do not decode into
// the documented shape.
type TransportError struct {
	Status int
	Code   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s (status %d): %v", e.Code, e.Status, e.Err)
	}
	return fmt.Sprintf("transport: %s (status %d)", e.Code, e.Status)
}

func (e *TransportError) Unwrap() error { return e.Err }
