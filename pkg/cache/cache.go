/*
File: cache.go
Description: Expiring response cache for Xbox Live API documents. Lazy TTL
expiry at read time, no background sweep, no size bound. Two TTL classes
exist: profile-class resources (10 minutes) and list-class resources
(30 minutes). Entries can be persisted to a JSON file so short-lived
processes still see hits within the TTL.
*/

package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/xau-tools/xau/pkg/jsondoc"
)

const (
	// ProfileTTL is the lifetime of profile-class resources.
	ProfileTTL = 10 * time.Minute

	// ListTTL is the lifetime of list-class resources (title history,
	// achievements).
	ListTTL = 30 * time.Minute
)

type entry struct {
	doc       jsondoc.Document
	expiresAt time.Time
}

// persistedEntry is the on-disk form of one cache entry.
type persistedEntry struct {
	Document  jsondoc.Document `json:"document"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// Cache is an expiring key->document store. A read past an entry's expiry
// is a miss, identical to an absent key. Growth is unbounded; entries are
// only removed by expiry-at-read or explicit invalidation. A cache opened
// from a file keeps its entries across processes via Save.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
	path    string
}

// New creates an empty in-memory cache using the wall clock.
func New() *Cache {
	return NewWithClock(time.Now)
}

// NewWithClock creates a cache with an injected clock for deterministic
// expiry tests.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     now,
	}
}

// Open loads a cache persisted at path. A missing or unreadable file yields
// an empty cache; already-expired entries are dropped on load.
func Open(path string) *Cache {
	return OpenWithClock(path, time.Now)
}

// OpenWithClock is Open with an injected clock for deterministic tests.
func OpenWithClock(path string, now func() time.Time) *Cache {
	c := NewWithClock(now)
	c.path = path

	raw, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var persisted map[string]persistedEntry
	if err := json.Unmarshal(raw, &persisted); err != nil {
		// A corrupt cache file is disposable; start over.
		return c
	}
	cutoff := now()
	for key, p := range persisted {
		if p.Document == nil || !cutoff.Before(p.ExpiresAt) {
			continue
		}
		c.entries[key] = entry{doc: p.Document, expiresAt: p.ExpiresAt}
	}
	return c
}

// Save writes the live entries back to the file the cache was opened from.
// A no-op for in-memory caches; expired entries are not written.
func (c *Cache) Save() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	persisted := make(map[string]persistedEntry, len(c.entries))
	cutoff := c.now()
	for key, e := range c.entries {
		if !cutoff.Before(e.expiresAt) {
			continue
		}
		persisted[key] = persistedEntry{Document: e.doc, ExpiresAt: e.expiresAt}
	}
	c.mu.Unlock()

	raw, err := json.Marshal(persisted)
	if err != nil {
		return fmt.Errorf("failed to encode cache: %w", err)
	}
	return os.WriteFile(c.path, raw, 0o644)
}

// Key builds the canonical "{resource}:{subject}" cache key.
func Key(resource, subject string) string {
	return fmt.Sprintf("%s:%s", resource, subject)
}

// Get returns the cached document for key, or ok=false on a miss. An
// expired entry is removed and reported as a miss.
func (c *Cache) Get(key string) (jsondoc.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e.doc, true
}

// Set stores doc under key for ttl, overwriting any previous entry.
func (c *Cache) Set(key string, doc jsondoc.Document, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{doc: doc, expiresAt: c.now().Add(ttl)}
}

// GetOrFetch returns the cached document for key, calling fetch and
// storing its result for ttl on a miss. A fetch error is returned as-is
// and nothing is cached.
func (c *Cache) GetOrFetch(key string, ttl time.Duration, fetch func() (jsondoc.Document, error)) (jsondoc.Document, error) {
	if doc, ok := c.Get(key); ok {
		return doc, nil
	}
	doc, err := fetch()
	if err != nil {
		return nil, err
	}
	c.Set(key, doc, ttl)
	return doc, nil
}

// Invalidate removes key. A no-op when the key is absent, so explicit
// refresh actions never fail.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len reports the number of stored entries, expired ones included. Used by
// tests and diagnostics only.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
