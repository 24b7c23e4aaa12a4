package cache

import (
	"context"
	"sync"
	"time"

	"weather-panel/datasource"
	"weather-panel/logger"
	"weather-panel/models"
)

// CachedIconSource wraps an IconSource and keeps decoded icons per code
type CachedIconSource struct {
	source         datasource.IconSource
	cache          map[string]cacheEntry
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
	now            func() time.Time
}

// cacheEntry represents a cached icon with its timestamp
type cacheEntry struct {
	Icon      models.Icon
	Timestamp time.Time
}

// NewCachedIconSource creates a new cached wrapper around an icon source
func NewCachedIconSource(source datasource.IconSource, cacheDuration time.Duration) *CachedIconSource {
	return &CachedIconSource{
		source:        source,
		cache:         make(map[string]cacheEntry),
		cacheDuration: cacheDuration,
		now:           time.Now,
	}
}

// Name returns the name of the underlying icon source with [Cached] suffix
func (c *CachedIconSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// FetchIcon returns the icon for code, using the cache when available
func (c *CachedIconSource) FetchIcon(ctx context.Context, code string) (models.Icon, error) {
	log := logger.GetLogger()

	c.mutex.RLock()
	entry, found := c.cache[code]
	c.mutex.RUnlock()

	if found && c.now().Sub(entry.Timestamp) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		log.Debugw("Icon cache hit", "code", code, "source", c.source.Name(),
			"age", c.now().Sub(entry.Timestamp).Round(time.Second))
		return entry.Icon, nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	log.Debugw("Icon cache miss", "code", code, "source", c.source.Name())

	icon, err := c.source.FetchIcon(ctx, code)
	if err != nil {
		return models.Icon{}, err
	}

	c.mutex.Lock()
	c.cache[code] = cacheEntry{
		Icon:      icon,
		Timestamp: c.now(),
	}
	c.mutex.Unlock()

	return icon, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedIconSource) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

// Ensure CachedIconSource implements the IconSource interface
var _ datasource.IconSource = (*CachedIconSource)(nil)
