package tstat

import (
	"sync"
	"time"
)

// DefaultTTL is the time a cached endpoint response stays valid, unless changed by WithTTL or SetTTL.
const DefaultTTL = 5 * time.Second

// Cache holds the last response of each endpoint.
//
// Entries are never evicted: an expired entry stays until the endpoint is fetched again.
// The number of entries is bounded by the number of distinct endpoints in the Registry.
type Cache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
	lock    sync.RWMutex
}

type cacheEntry struct {
	payload   map[string]any
	fetchedAt time.Time
}

// NewCache returns an empty Cache with the specified TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached response for the endpoint and its age. ok is false if the endpoint was never stored.
// Get does not check if the entry is still valid: see Valid.
func (c *Cache) Get(endpoint string) (payload map[string]any, age time.Duration, ok bool) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	entry, ok := c.entries[endpoint]
	if ok {
		payload = entry.payload
		age = c.now().Sub(entry.fetchedAt)
	}
	return payload, age, ok
}

// Put stores the response for the endpoint, replacing any previous entry.
func (c *Cache) Put(endpoint string, payload map[string]any) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries[endpoint] = cacheEntry{payload: payload, fetchedAt: c.now()}
}

// Valid reports whether an entry of the given age may still be used. An entry whose age equals the TTL is expired.
func (c *Cache) Valid(age time.Duration) bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return age < c.ttl
}

// SetTTL changes the TTL. This applies to all entries, including those already cached.
func (c *Cache) SetTTL(ttl time.Duration) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.ttl = ttl
}

// TTL returns the current TTL.
func (c *Cache) TTL() time.Duration {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.ttl
}

// Len returns the number of cached endpoints, valid or not.
func (c *Cache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.entries)
}
