// Package resultcache caches cluster-run outcomes keyed by dataset and
// parameters, so repeated requests for the same (dataset, eps, min_pts)
// triple skip re-running the engine. The underlying LRU mechanism mirrors
// the teacher's query-result cache.
package resultcache

import (
	"container/list"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/lennartvoss/geocluster/pkg/cluster"
)

// Key identifies a cached cluster outcome.
type Key string

// NewKey derives a cache key from a dataset identity and clustering
// parameters, including the dataset's current point count so a
// stale entry from before new points were appended never collides with the
// key for the updated dataset.
func NewKey(datasetID string, pointCount int64, eps float64, minPts uint) Key {
	h := sha256.New()
	h.Write([]byte(datasetID))
	binary.Write(h, binary.LittleEndian, pointCount)
	binary.Write(h, binary.LittleEndian, eps)
	binary.Write(h, binary.LittleEndian, uint64(minPts))
	return Key(fmt.Sprintf("run:%x", h.Sum(nil)[:16]))
}

// Outcome is the cached result of a single cluster run.
type Outcome struct {
	ClusterCount uint64
	Points       []cluster.ClusterablePoint
	ComputedAt   time.Time
}

// LRUCache is a thread-safe, size-bounded cache with optional per-entry
// TTL.
type LRUCache struct {
	capacity int
	ttl      time.Duration

	mu    sync.RWMutex
	items map[Key]*list.Element
	order *list.List

	hits   int64
	misses int64
}

type entry struct {
	key       Key
	value     Outcome
	expiresAt time.Time
}

// NewLRUCache creates a cache holding at most capacity entries. A ttl of 0
// disables expiration.
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[Key]*list.Element, capacity),
		order:    list.New(),
	}
}

// Get retrieves a cached outcome, reporting a miss if absent or expired.
func (c *LRUCache) Get(key Key) (Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return Outcome{}, false
	}

	e := elem.Value.(*entry)
	if c.ttl > 0 && time.Now().After(e.expiresAt) {
		c.removeElement(elem)
		c.misses++
		return Outcome{}, false
	}

	c.order.MoveToFront(elem)
	c.hits++
	return e.value, true
}

// Put stores or replaces an outcome under key.
func (c *LRUCache) Put(key Key, value Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry)
		e.value = value
		if c.ttl > 0 {
			e.expiresAt = time.Now().Add(c.ttl)
		}
		c.order.MoveToFront(elem)
		return
	}

	e := &entry{key: key, value: value}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}

	elem := c.order.PushFront(e)
	c.items[key] = elem

	if c.order.Len() > c.capacity {
		c.evictOldest()
	}
}

// Invalidate removes a single key.
func (c *LRUCache) Invalidate(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
}

// Clear empties the cache and resets its statistics.
func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[Key]*list.Element, c.capacity)
	c.order.Init()
	c.hits = 0
	c.misses = 0
}

// Size returns the number of entries currently cached.
func (c *LRUCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.order.Len()
}

// Stats reports cache hit/miss counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Size    int
	HitRate float64
}

// Stats returns a snapshot of the cache's performance counters.
func (c *LRUCache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.hits + c.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(c.hits) / float64(total)
	}

	return Stats{
		Hits:    c.hits,
		Misses:  c.misses,
		Size:    c.order.Len(),
		HitRate: hitRate,
	}
}

func (c *LRUCache) evictOldest() {
	if elem := c.order.Back(); elem != nil {
		c.removeElement(elem)
	}
}

func (c *LRUCache) removeElement(elem *list.Element) {
	c.order.Remove(elem)
	e := elem.Value.(*entry)
	delete(c.items, e.key)
}
