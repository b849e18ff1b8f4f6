package fetch

import (
	"context"
	"sync"
)

// State holds the result a view currently displays.
//
// Overlapping fetches are not fenced: when two loads are in flight, whichever
// finishes last overwrites the displayed result, even if it was started first.
// This matches the behaviour of the web dashboard and is kept on purpose so
// the two stay comparable.
type State[T any] struct {
	mu       sync.Mutex
	current  Result[T]
	onChange func(Result[T])
}

// NewState creates a state in the loading phase. onChange, if non-nil, is
// called after every transition with the new result.
func NewState[T any](onChange func(Result[T])) *State[T] {
	return &State[T]{current: Loading[T](), onChange: onChange}
}

// Current returns the displayed result.
func (s *State[T]) Current() Result[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Begin marks a new fetch as in flight. Data from the previous successful
// fetch is kept so views can keep showing it while loading.
func (s *State[T]) Begin() {
	s.mu.Lock()
	previous := s.current
	s.current = Result[T]{Status: StatusLoading, Data: previous.Data}
	next := s.current
	s.mu.Unlock()

	s.notify(next)
}

// Apply replaces the displayed result. An error stays until a later Apply
// replaces it.
func (s *State[T]) Apply(result Result[T]) {
	s.mu.Lock()
	s.current = result
	s.mu.Unlock()

	s.notify(result)
}

// Run begins a fetch and applies its outcome from a new goroutine. The
// returned channel is closed once the result has been applied.
func (s *State[T]) Run(ctx context.Context, fn func(context.Context) (T, error)) <-chan struct{} {
	s.Begin()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.Apply(Load(ctx, fn))
	}()
	return done
}

func (s *State[T]) notify(result Result[T]) {
	if s.onChange != nil {
		s.onChange(result)
	}
}
