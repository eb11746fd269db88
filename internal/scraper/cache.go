package scraper

import (
	"strings"
	"sync"
	"time"

	"github.com/pfrederiksen/itra-results/internal/runner"
)

// resultCache holds recently scraped result sets keyed by page URL
type resultCache struct {
	mu       sync.Mutex
	results  map[string]runner.ResultSet
	cachedAt map[string]time.Time
	ttl      time.Duration
	now      func() time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		results:  make(map[string]runner.ResultSet),
		cachedAt: make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns a copy of the cached results for pageURL.
// Expired entries are removed and reported as missing.
func (c *resultCache) Get(pageURL string) (runner.ResultSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(pageURL)
	results, exists := c.results[key]
	if !exists {
		return nil, false
	}

	if c.now().Sub(c.cachedAt[key]) > c.ttl {
		delete(c.results, key)
		delete(c.cachedAt, key)
		return nil, false
	}

	return append(runner.ResultSet{}, results...), true
}

// Set stores a copy of results for pageURL
func (c *resultCache) Set(pageURL string, results runner.ResultSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey(pageURL)
	c.results[key] = append(runner.ResultSet{}, results...)
	c.cachedAt[key] = c.now()
}

// CleanExpired removes expired entries and returns how many were dropped
func (c *resultCache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for key, cachedTime := range c.cachedAt {
		if now.Sub(cachedTime) > c.ttl {
			delete(c.results, key)
			delete(c.cachedAt, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of cached entries
func (c *resultCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.results)
}

func cacheKey(pageURL string) string {
	return strings.TrimSpace(pageURL)
}
