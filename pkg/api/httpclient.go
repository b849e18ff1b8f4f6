package api

import (
	"net/http"
	"sync"
	"time"
)

// HTTPClient sends a single request. *http.Client satisfies it; tests swap in
// a MockHTTPClient.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// DefaultRequestInterval spaces consecutive backend requests.
const DefaultRequestInterval = 250 * time.Millisecond

// Throttle spaces requests at least interval apart. The first request goes
// out immediately; each later one is given the next free slot. A caller
// waiting for its slot gives up when the request context ends, without
// holding up the callers queued behind it.
type Throttle struct {
	client   HTTPClient
	interval time.Duration

	mu     sync.Mutex
	next   time.Time
	closed bool
}

// NewThrottle wraps client. A non-positive interval disables spacing.
func NewThrottle(client HTTPClient, interval time.Duration) *Throttle {
	return &Throttle{client: client, interval: interval}
}

// reserve claims the next slot and returns how long to wait for it.
func (throttle *Throttle) reserve() time.Duration {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	if throttle.closed || throttle.interval <= 0 {
		return 0
	}
	now := time.Now()
	slot := throttle.next
	if slot.Before(now) {
		slot = now
	}
	throttle.next = slot.Add(throttle.interval)
	return slot.Sub(now)
}

// Do sends req once its slot comes up.
func (throttle *Throttle) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if wait := throttle.reserve(); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return throttle.client.Do(req)
}

// Close turns spacing off. Safe to call more than once.
func (throttle *Throttle) Close() {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	throttle.closed = true
}
