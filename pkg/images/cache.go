package images

import "sync"

// Cache deduplicates image downloads within a single run, keyed by fetch
// URL. It replaces process-wide state: create a fresh cache per run so
// the pipeline stays reentrant and testable. Safe for concurrent use by
// the bounded fetch workers.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*fetched
}

// NewCache creates an empty run-scoped cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*fetched)}
}

func (c *Cache) get(url string) (*fetched, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.entries[url]
	return f, ok
}

func (c *Cache) put(url string, f *fetched) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[url] = f
}

// Len returns the number of cached downloads.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
