package battle

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/musicflow/audio"
)

// cacheKey identifies one rendered network
// Seed is part of the key since re-seeding a battle yields different audio
type cacheKey struct {
	battle ID
	side   Side
	seed   uint32
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.battle, k.side, k.seed)
}

// Cache keeps rendered buffers for recently loaded battles
// Cached buffers are shared and must be treated as read-only
type Cache struct {
	mu       sync.RWMutex
	store    map[cacheKey]*audio.AudioBuffer
	order    []cacheKey // Insertion order for eviction
	capacity int

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCache creates a cache holding at most capacity buffers (minimum 2)
func NewCache(capacity int) *Cache {
	if capacity < 2 {
		capacity = 2
	}
	return &Cache{
		store:    make(map[cacheKey]*audio.AudioBuffer, capacity),
		capacity: capacity,
	}
}

// get returns the cached buffer for key or renders it
// Rendering happens outside the lock; on a concurrent miss the first insert wins
func (c *Cache) get(key cacheKey, render func() (*audio.AudioBuffer, error)) (*audio.AudioBuffer, error) {
	c.mu.RLock()
	if buf, ok := c.store[key]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return buf, nil
	}
	c.mu.RUnlock()
	c.misses.Add(1)

	buf, err := render()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if existing, ok := c.store[key]; ok {
		return existing, nil
	}

	c.store[key] = buf
	c.order = append(c.order, key)
	for len(c.order) > c.capacity {
		delete(c.store, c.order[0])
		c.order = c.order[1:]
	}
	return buf, nil
}

// Len returns the number of cached buffers
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Stats returns hit and miss counters
func (c *Cache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
