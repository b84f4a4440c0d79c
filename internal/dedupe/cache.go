package dedupe

import (
	"sync"
	"time"
)

type mark struct {
	key string
	at  time.Time
}

// Cache keeps a fixed-size set of recently classified posting hashes so
// the worker can skip re-scoring identical postings inside the TTL window.
type Cache struct {
	mu       sync.Mutex
	seen     map[string]time.Time
	order    []mark
	capacity int
	ttl      time.Duration
}

// NewCache creates a cache with the provided capacity and ttl.
func NewCache(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		seen:     make(map[string]time.Time, capacity),
		order:    make([]mark, 0, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// IsSeen reports whether the key was observed inside the ttl window.
// It does not record the key; use MarkSeen for that.
func (c *Cache) IsSeen(key string) bool {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	at, ok := c.seen[key]
	return ok && now.Sub(at) <= c.ttl
}

// MarkSeen records that a key has been processed.
func (c *Cache) MarkSeen(key string) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seen[key] = now
	c.order = append(c.order, mark{key: key, at: now})
	c.compact(now)
}

// compact evicts expired marks and, when over capacity, the oldest ones.
func (c *Cache) compact(now time.Time) {
	cutoff := now.Add(-c.ttl)

	for len(c.order) > 0 && (len(c.seen) > c.capacity || c.order[0].at.Before(cutoff)) {
		oldest := c.order[0]
		c.order = c.order[1:]

		// A newer mark for the same key keeps the entry alive.
		if at, ok := c.seen[oldest.key]; ok && at == oldest.at {
			delete(c.seen, oldest.key)
		}
	}
}
