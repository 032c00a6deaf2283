// Package aicache memoizes completion results keyed by operation and
// parameters. Entries expire after a fixed TTL and are evicted lazily: an
// expired entry is treated as absent on read and overwritten on the next
// write to the same key. There is no capacity bound and no persistence across
// process restarts.
package aicache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// DefaultTTL is the process-wide entry lifetime.
const DefaultTTL = 30 * time.Minute

type entry struct {
	payload  any
	storedAt time.Time
}

// Cache is safe for concurrent use by multiple in-flight fan-out branches.
// Last writer wins on identical keys; payloads for identical keys are expected
// to be semantically equivalent.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the time source. Intended for tests.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Key builds a deterministic cache key from an operation name and its
// parameters. encoding/json sorts map keys, so structurally equal parameter
// maps produce identical keys regardless of insertion order.
func Key(op string, params any) (string, error) {
	serialized, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("serialize cache key params: %w", err)
	}
	return op + ":" + string(serialized), nil
}

// Get returns the cached payload for (op, params), or false when the key is
// absent, expired or unserializable.
func (c *Cache) Get(op string, params any) (any, bool) {
	key, err := Key(op, params)
	if err != nil {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}

	return e.payload, true
}

// Set stores the payload for (op, params). Unserializable params are dropped
// silently: a missed caching opportunity is cheaper than failing the call.
func (c *Cache) Set(op string, params, payload any) {
	key, err := Key(op, params)
	if err != nil {
		return
	}

	c.mu.Lock()
	c.entries[key] = entry{payload: payload, storedAt: c.now()}
	c.mu.Unlock()
}

// Size returns the number of stored entries, expired ones included.
func (c *Cache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear drops all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
}
