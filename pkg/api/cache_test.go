package api

import (
	"sync"
	"testing"
	"time"
)

func TestCacheSetAndGet(t *testing.T) {
	responseCache := NewResponseCache(1 * time.Hour)

	responseCache.Set("http://backend.test/api/legislaturas", []byte(`[]`))

	body, found := responseCache.Get("http://backend.test/api/legislaturas")
	if !found {
		t.Fatal("Expected to find cached entry")
	}
	if string(body) != "[]" {
		t.Errorf("body: got %q, want %q", body, "[]")
	}
}

func TestCacheMiss(t *testing.T) {
	responseCache := NewResponseCache(1 * time.Hour)

	if _, found := responseCache.Get("nonexistent-key"); found {
		t.Error("Expected cache miss for nonexistent key")
	}
}

func TestCacheTTLExpiration(t *testing.T) {
	responseCache := NewResponseCache(1 * time.Millisecond)
	responseCache.Set("expiring-key", []byte("x"))

	time.Sleep(5 * time.Millisecond)

	if _, found := responseCache.Get("expiring-key"); found {
		t.Error("Expected cache entry to be expired")
	}
}

func TestCacheInvalidateAndClear(t *testing.T) {
	responseCache := NewResponseCache(1 * time.Hour)
	responseCache.Set("a", []byte("1"))
	responseCache.Set("b", []byte("2"))

	responseCache.Invalidate("a")
	if _, found := responseCache.Get("a"); found {
		t.Error("Expected entry to be removed after Invalidate")
	}
	if responseCache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", responseCache.Len())
	}

	responseCache.Clear()
	if responseCache.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", responseCache.Len())
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	responseCache := NewResponseCache(1 * time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := string(rune('a' + n%26))
			responseCache.Set(key, []byte{byte(n)})
			responseCache.Get(key)
		}(i)
	}
	wg.Wait()

	if responseCache.Len() != 26 {
		t.Errorf("Len: got %d, want 26", responseCache.Len())
	}
}
