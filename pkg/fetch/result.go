// Package fetch gives every view the same typed loading/error/ready state for
// the data it pulls from the backend.
package fetch

import (
	"context"
	"fmt"

	"github.com/coolbeans/hemiciclo/pkg/api"
)

// Status is the phase of a fetch.
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusReady
)

// String returns the lower-case name of the status.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is a tagged variant: Data is meaningful when Status is
// StatusReady, Message and Err when it is StatusError.
type Result[T any] struct {
	Status  Status
	Data    T
	Message string
	Err     error
}

// Loading returns a result in the loading phase.
func Loading[T any]() Result[T] {
	return Result[T]{Status: StatusLoading}
}

// Ready wraps successfully fetched data.
func Ready[T any](data T) Result[T] {
	return Result[T]{Status: StatusReady, Data: data}
}

// Failed wraps a fetch error together with its user-facing message.
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusError, Message: api.Describe(err), Err: err}
}

// IsLoading reports whether the fetch is still in flight.
func (r Result[T]) IsLoading() bool { return r.Status == StatusLoading }

// IsError reports whether the fetch failed.
func (r Result[T]) IsError() bool { return r.Status == StatusError }

// IsReady reports whether Data holds a fetched value.
func (r Result[T]) IsReady() bool { return r.Status == StatusReady }

// Load runs fn once and folds its outcome into a Result. It never retries.
func Load[T any](ctx context.Context, fn func(context.Context) (T, error)) Result[T] {
	data, err := fn(ctx)
	if err != nil {
		return Failed[T](err)
	}
	return Ready(data)
}

// LoadList is Load for list endpoints: an empty list is reported as an error
// state ("no data available") so views render one message for every way a
// listing can come back without content.
func LoadList[T any](ctx context.Context, fn func(context.Context) ([]T, error)) Result[[]T] {
	result := Load(ctx, fn)
	if result.IsReady() && len(result.Data) == 0 {
		return Failed[[]T](api.ErrEmpty)
	}
	return result
}
