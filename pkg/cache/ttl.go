package cache

import (
	"sync"
	"time"
)

// Clock abstracts time.Now so expiry can be driven by tests
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock
type SystemClock struct{}

// Now returns time.Now()
func (SystemClock) Now() time.Time { return time.Now() }

type ttlEntry[V any] struct {
	value     V
	fetchedAt time.Time
}

// TTLCache is an in-process cache where every entry carries the time it was fetched.
// An entry older than ttl is treated as missing. Safe for concurrent use.
type TTLCache[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]ttlEntry[V]
	gens    map[K]uint64 // bumped by Invalidate
	ttl     time.Duration
	clock   Clock
}

// NewTTLCache creates a cache. A nil clock uses SystemClock.
func NewTTLCache[K comparable, V any](ttl time.Duration, clock Clock) *TTLCache[K, V] {
	if clock == nil {
		clock = SystemClock{}
	}
	return &TTLCache[K, V]{
		entries: make(map[K]ttlEntry[V]),
		gens:    make(map[K]uint64),
		ttl:     ttl,
		clock:   clock,
	}
}

// Get returns the value if present and not expired
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.clock.Now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value with fetchedAt = now
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	c.entries[key] = ttlEntry[V]{value: value, fetchedAt: c.clock.Now()}
	c.mu.Unlock()
}

// Invalidate drops the entry. A GetOrLoad whose load started before the
// call will not store its result.
func (c *TTLCache[K, V]) Invalidate(key K) {
	c.mu.Lock()
	delete(c.entries, key)
	c.gens[key]++
	c.mu.Unlock()
}

// GetOrLoad returns a fresh cached value or calls load and caches its result.
// Errors from load are returned as-is and nothing is cached. The loaded value
// is still returned but not cached when the key was invalidated during load.
func (c *TTLCache[K, V]) GetOrLoad(key K, load func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.Lock()
	gen := c.gens[key]
	c.mu.Unlock()

	v, err := load()
	if err != nil {
		return v, err
	}

	c.mu.Lock()
	if c.gens[key] == gen {
		c.entries[key] = ttlEntry[V]{value: v, fetchedAt: c.clock.Now()}
	}
	c.mu.Unlock()
	return v, nil
}

// Len returns the number of entries, expired ones included
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
