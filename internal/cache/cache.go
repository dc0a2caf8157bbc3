package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"CryptoPulse/internal/model"
)

// Clock returns the current time. Injected so tests control expiry.
type Clock func() time.Time

// KeyFunc derives a deterministic cache key from an operation name and its
// exact argument values. Identical calls must map to the same key;
// differing calls must not collide.
type KeyFunc func(op string, args ...any) string

// Entry is one cached result with its provenance and lifetime.
type Entry struct {
	Value      any
	Provenance model.Provenance
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Stats describes the cache population.
type Stats struct {
	Total int
	Fresh int
	Stale int
}

// Cache is a TTL memoization store keyed per (operation, arguments).
// Entries move Empty -> Fresh -> Stale as the clock passes ExpiresAt and
// back to Fresh only on a successful refresh; they are superseded, never
// proactively evicted, so expired values stay readable for degradation.
// A single RWMutex guards the map: the path is read-heavy and request
// rates are low.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Entry
	clock   Clock
	keyFn   KeyFunc
}

// New creates a cache with the given clock and key function; nil arguments
// select time.Now and DefaultKey.
func New(clock Clock, keyFn KeyFunc) *Cache {
	if clock == nil {
		clock = time.Now
	}
	if keyFn == nil {
		keyFn = DefaultKey
	}
	return &Cache{
		entries: make(map[string]Entry),
		clock:   clock,
		keyFn:   keyFn,
	}
}

// DefaultKey hashes the operation name and argument values with SHA-256,
// making accidental collisions cryptographically negligible.
func DefaultKey(op string, args ...any) string {
	h := sha256.New()
	fmt.Fprint(h, op)
	for _, a := range args {
		fmt.Fprintf(h, "|%v", a)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Key derives the cache key for an operation and its arguments.
func (c *Cache) Key(op string, args ...any) string {
	return c.keyFn(op, args...)
}

// Get returns the entry for key if it is still fresh.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || !c.clock().Before(e.ExpiresAt) {
		return Entry{}, false
	}
	return e, true
}

// GetStale returns the entry for key regardless of expiry. A stale read
// never promotes the entry back to fresh.
func (c *Cache) GetStale(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e, ok
}

// Put stores a value under key with the given provenance and TTL,
// superseding any previous entry.
func (c *Cache) Put(key string, value any, prov model.Provenance, ttl time.Duration) {
	now := c.clock()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = Entry{
		Value:      value,
		Provenance: prov,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// Info reports how many entries are fresh versus expired.
func (c *Cache) Info() Stats {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Stats{Total: len(c.entries)}
	for _, e := range c.entries {
		if now.Before(e.ExpiresAt) {
			st.Fresh++
		} else {
			st.Stale++
		}
	}
	return st
}
