package api

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthRequired means the backend answered 401: the credential is
	// missing or expired. The session store has already been told to log
	// out by the time callers see this.
	ErrAuthRequired = errors.New("api: authentication required")

	// ErrServerFault covers 5xx answers. The payload is not trusted;
	// callers show a generic retry-later message.
	ErrServerFault = errors.New("api: server fault")

	// ErrNetworkUnreachable covers transport-level failures. Polling
	// callers simply retry on the next tick.
	ErrNetworkUnreachable = errors.New("api: network unreachable")
)

// RejectedError is a 4xx answer with a message payload. The detail is
// surfaced to the user verbatim.
type RejectedError struct {
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: rejected (%d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("api: rejected (%d)", e.Status)
}
