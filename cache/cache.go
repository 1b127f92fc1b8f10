// Package cache provides memoization for deterministic grammar expansion.
// Expansion lists are a pure function of an immutable grammar, so a rule's
// possibility list can be reused across rules that reference it and across
// repeated expansion calls.
package cache

import (
	"sync"
)

// ExpansionCache caches expansion possibility lists keyed by rule name.
type ExpansionCache struct {
	mu        sync.Mutex
	cache     map[string][]string
	maxSize   int
	hits      int64
	misses    int64
	evictions int64
}

// NewExpansionCache creates a cache holding at most maxSize rules. When
// the cache is full, an arbitrary entry is evicted. Set maxSize to 0 for
// an unlimited cache.
func NewExpansionCache(maxSize int) *ExpansionCache {
	return &ExpansionCache{
		cache:   make(map[string][]string),
		maxSize: maxSize,
	}
}

// Get retrieves the cached expansion list for a rule.
func (c *ExpansionCache) Get(rule string) ([]string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strs, ok := c.cache[rule]; ok {
		c.hits++
		return strs, true
	}
	c.misses++
	return nil, false
}

// Put stores an expansion list for a rule.
func (c *ExpansionCache) Put(rule string, strs []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxSize > 0 && len(c.cache) >= c.maxSize {
		for k := range c.cache {
			delete(c.cache, k)
			c.evictions++
			break
		}
	}

	c.cache[rule] = strs
}

// GetOrCompute retrieves from the cache or computes and caches the result.
// Compute errors are returned without caching anything.
func (c *ExpansionCache) GetOrCompute(rule string, compute func() ([]string, error)) ([]string, error) {
	if strs, ok := c.Get(rule); ok {
		return strs, nil
	}

	strs, err := compute()
	if err != nil {
		return nil, err
	}
	c.Put(rule, strs)
	return strs, nil
}

// Clear removes all entries.
func (c *ExpansionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string][]string)
}

// Size returns the current number of cached rules.
func (c *ExpansionCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}

// Stats describes cache effectiveness.
type Stats struct {
	Size      int
	MaxSize   int
	Hits      int64
	Misses    int64
	Evictions int64
	HitRate   float64
}

// Stats returns a snapshot of cache statistics.
func (c *ExpansionCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Size:      len(c.cache),
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
		HitRate:   hitRate,
	}
}
