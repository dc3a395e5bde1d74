package main

import (
	"log"
	"sync"
	"time"
)

// TimedCache wraps a possibly slow, possibly failing fetch behind a
// TTL. The cached value and its timestamp only ever change together:
// a fetch that fails partway leaves the previous entry untouched, so
// a failed secondary step can never commit the primary step's result
// alone or reset the refresh clock.
//
// Get never returns an error for a transient fetch failure; it hands
// back the last good value, stale or not, and reports ok=false only
// when nothing was ever fetched successfully.
type TimedCache[T any] struct {
	mu          sync.Mutex
	fetch       func() (T, error)
	ttl         time.Duration
	value       T
	hasValue    bool
	lastUpdated time.Time
	fetching    bool

	now func() time.Time
}

func NewTimedCache[T any](ttl time.Duration, fetch func() (T, error)) *TimedCache[T] {
	return &TimedCache[T]{fetch: fetch, ttl: ttl, now: time.Now}
}

// Get returns the cached value, refreshing it first when the TTL has
// expired. Concurrent callers observing the same expired entry do not
// stack up duplicate fetches: whoever arrives while a fetch is in
// flight gets the previous value immediately.
func (c *TimedCache[T]) Get() (T, bool) {
	c.mu.Lock()

	if c.hasValue && c.now().Sub(c.lastUpdated) < c.ttl {
		v := c.value
		c.mu.Unlock()
		return v, true
	}

	if c.fetching {
		v, ok := c.value, c.hasValue
		c.mu.Unlock()
		return v, ok
	}

	c.fetching = true
	c.mu.Unlock()

	// The fetch may do network I/O; it runs without the lock so
	// readers on the render thread are never blocked behind it.
	fresh, err := c.fetch()

	c.mu.Lock()
	c.fetching = false
	if err != nil {
		log.Printf("cache: fetch failed, serving previous value: %v", err)
		v, ok := c.value, c.hasValue
		c.mu.Unlock()
		return v, ok
	}
	c.value = fresh
	c.hasValue = true
	c.lastUpdated = c.now()
	c.mu.Unlock()
	return fresh, true
}

// Peek returns whatever is cached without ever triggering a fetch.
func (c *TimedCache[T]) Peek() (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value, c.hasValue
}

// LastUpdated reports when the entry was last replaced.
func (c *TimedCache[T]) LastUpdated() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUpdated
}
