package api

import (
	"context"
	"errors"
	"fmt"
)

// ErrTransport wraps network-level failures: DNS, refused connections,
// truncated bodies.
var ErrTransport = errors.New("transport failure")

// ErrEmpty is returned when the backend answers with an empty payload.
var ErrEmpty = errors.New("empty response")

// StatusError reports a non-success HTTP status.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.Code, e.URL)
}

// APIError is an application-level error reported inside a 2xx payload,
// e.g. {"error": "legislatura inválida"}.
type APIError struct {
	Message string
	URL     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error from %s: %s", e.URL, e.Message)
}

// Describe reduces any client error to the single human-readable line a view
// shows in its error state.
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrEmpty):
		return "no data available"
	case errors.As(err, &apiErr):
		return apiErr.Message
	case errors.As(err, &statusErr):
		return fmt.Sprintf("server responded with HTTP %d", statusErr.Code)
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, ErrTransport):
		return "could not reach the server"
	default:
		return err.Error()
	}
}
