// Package cache wraps ristretto as the bounded memo store used by the
// hand evaluator's pure functions (see hand.Reduce / hand.Candidates).
package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// MemoCache is a bounded, concurrent-safe cache for memoizing a pure
// function keyed by a compact string. Entries never expire on their
// own; they are evicted by ristretto's cost-based policy once the
// store is full, which is the right fit for a pure-function memo: a
// stale entry is never wrong, only possibly re-computed.
type MemoCache struct {
	cache *ristretto.Cache
}

// NewMemoCache creates a cache sized for roughly maxEntries resident
// items (cost 1 per entry).
func NewMemoCache(maxEntries int64) (*MemoCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create memo cache: %w", err)
	}
	return &MemoCache{cache: c}, nil
}

// Get returns the cached value for key, if present and not yet
// evicted. A miss is not a guarantee of absence from a prior Set -
// ristretto's admission policy may have dropped it; callers must
// recompute on a miss rather than treat it as authoritative.
func (c *MemoCache) Get(key string) (interface{}, bool) {
	return c.cache.Get(key)
}

// Set stores value under key with cost 1 and no expiry.
func (c *MemoCache) Set(key string, value interface{}) bool {
	return c.cache.SetWithTTL(key, value, 1, 0)
}

// Close releases the cache's background goroutines.
func (c *MemoCache) Close() {
	c.cache.Close()
}
