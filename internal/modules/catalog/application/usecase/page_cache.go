package usecase

import (
	"strings"
	"sync"
	"time"
)

const (
	scopeRestaurants = "restaurants"
	scopeDishes      = "dishes"
	scopeMenu        = "menu"
	cacheDelimiter   = ":"
)

// pageCache remembers the last successful response per listing so a failed refresh can
// fall back to it.
type pageCache struct {
	mu      sync.RWMutex
	entries map[string]*pageCacheEntry
}

type pageCacheEntry struct {
	scope     string
	key       string
	value     any
	fetchedAt time.Time
}

func newPageCache() *pageCache {
	return &pageCache{entries: make(map[string]*pageCacheEntry)}
}

func (c *pageCache) set(scope, key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entryKey := cacheEntryKey(scope, key)
	c.entries[entryKey] = &pageCacheEntry{
		scope:     strings.TrimSpace(scope),
		key:       entryKey,
		value:     value,
		fetchedAt: time.Now().UTC(),
	}
}

func (c *pageCache) get(scope, key string) (*pageCacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[cacheEntryKey(scope, key)]
	if !ok {
		return nil, false
	}
	cloned := *entry
	return &cloned, true
}

func (c *pageCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func cacheEntryKey(scope, key string) string {
	return strings.ToLower(strings.TrimSpace(scope)) + cacheDelimiter + strings.TrimSpace(key)
}

// cached returns the typed value stored under scope and key.
func cached[T any](c *pageCache, scope, key string) (T, time.Time, bool) {
	var zero T
	entry, ok := c.get(scope, key)
	if !ok {
		return zero, time.Time{}, false
	}
	value, ok := entry.value.(T)
	if !ok {
		return zero, time.Time{}, false
	}
	return value, entry.fetchedAt, true
}
