// Package cache provides the in-memory TTL cache used for search results.
// Unlike a plain map keyed by query, it carries an LRU capacity bound so a
// flood of distinct queries cannot grow the process without limit, and the
// clock is injectable so expiry is testable without sleeping.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// Cache is a bounded key-value store with per-entry TTL. Expired entries
// are evicted lazily on read; capacity overflow evicts the least recently
// used entry on write. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	now      func() time.Time
	order    *list.List // front = most recently used
	items    map[string]*list.Element
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the time source, used by tests to fake expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New returns a cache holding at most capacity entries. A non-positive
// capacity falls back to 1024.
func New(capacity int, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = 1024
	}
	c := &Cache{
		capacity: capacity,
		now:      time.Now,
		order:    list.New(),
		items:    make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload stored under key, or false when the key is absent
// or its TTL has elapsed. Expired entries are deleted on the spot. The
// returned value is shared, callers must treat it as read-only.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	e := el.Value.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.removeLocked(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return e.value, true
}

// Set stores value under key for ttl, replacing any previous entry and
// evicting the least recently used entry when the cache is full.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := c.now().Add(ttl)
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry)
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		return
	}
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeLocked(oldest)
		}
	}
	c.items[key] = c.order.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
}

// Delete removes key if present.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
	}
}

// Len reports the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *Cache) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.items, e.key)
}
