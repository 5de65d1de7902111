package tmdb

import "sync"

// requestCache memoizes raw response bodies keyed by the exact request
// signature (endpoint plus canonically-encoded parameters). Entries live for
// the process lifetime; a batch run's distinct-request volume is bounded by
// library size, so there is no eviction. Concurrent identical-key misses may
// each fetch once; the last write wins, which is harmless for identical
// requests.
type requestCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func newRequestCache() *requestCache {
	return &requestCache{entries: make(map[string][]byte)}
}

func (c *requestCache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	body, ok := c.entries[key]
	return body, ok
}

func (c *requestCache) put(key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = body
}

func (c *requestCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
