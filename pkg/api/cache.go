package api

import (
	"time"

	"github.com/erni27/imcache"
)

// DefaultCacheTTL is the default time-to-live for cached response bodies.
const DefaultCacheTTL = 5 * time.Minute

// ResponseCache is a thread-safe in-memory TTL cache of raw response bodies
// keyed by request URL. Only successful responses are stored.
type ResponseCache struct {
	entries    *imcache.Cache[string, []byte]
	defaultTTL time.Duration
}

// NewResponseCache creates a cache whose entries expire after defaultTTL.
func NewResponseCache(defaultTTL time.Duration) *ResponseCache {
	return &ResponseCache{
		entries:    imcache.New[string, []byte](),
		defaultTTL: defaultTTL,
	}
}

// Get returns the cached body for key if present and not expired.
func (responseCache *ResponseCache) Get(key string) ([]byte, bool) {
	return responseCache.entries.Get(key)
}

// Set stores body under key with the default TTL.
func (responseCache *ResponseCache) Set(key string, body []byte) {
	responseCache.entries.Set(key, body, imcache.WithExpiration(responseCache.defaultTTL))
}

// Invalidate removes a specific entry.
func (responseCache *ResponseCache) Invalidate(key string) {
	responseCache.entries.Remove(key)
}

// Clear drops every entry.
func (responseCache *ResponseCache) Clear() {
	responseCache.entries.RemoveAll()
}

// Len returns the number of live entries.
func (responseCache *ResponseCache) Len() int {
	return responseCache.entries.Len()
}
