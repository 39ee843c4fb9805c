// Package lru provides a bounded, concurrency-safe least-recently-used
// cache. It backs the character metadata intern pool and the decoration tree
// cache.
package lru

import (
	"container/list"
	"fmt"
	"sync"
)

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits       int64
	Misses     int64
	Evictions  int64
	Entries    int
	MaxEntries int
}

type item[K comparable, V any] struct {
	key   K
	value V
}

// Cache maps keys to values, dropping the least recently used entry once
// maxEntries is reached. Front of order is most recent.
type Cache[K comparable, V any] struct {
	mu         sync.Mutex
	index      map[K]*list.Element
	order      *list.List
	maxEntries int
	stats      Stats
}

// New returns an empty cache holding at most maxEntries. It panics when
// maxEntries is not positive.
func New[K comparable, V any](maxEntries int) *Cache[K, V] {
	if maxEntries <= 0 {
		panic(fmt.Sprintf("lru: maxEntries must be positive, got %d", maxEntries))
	}

	return &Cache[K, V]{
		index:      make(map[K]*list.Element),
		order:      list.New(),
		maxEntries: maxEntries,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.lookup(key); ok {
		return el.Value.(*item[K, V]).value, true
	}

	var zero V

	return zero, false
}

// Put stores value under key, replacing any previous value.
func (c *Cache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.index[key]; ok {
		el.Value.(*item[K, V]).value = value
		c.order.MoveToFront(el)

		return
	}

	c.insert(key, value)
}

// GetOrPut returns the cached value for key, or stores and returns value
// when key is absent. loaded reports a cache hit.
func (c *Cache[K, V]) GetOrPut(key K, value V) (actual V, loaded bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.lookup(key); ok {
		return el.Value.(*item[K, V]).value, true
	}

	c.insert(key, value)

	return value, false
}

// Remove drops key and reports whether it was present.
func (c *Cache[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.index[key]
	if ok {
		c.order.Remove(el)
		delete(c.index, key)
	}

	return ok
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.order.Len()
}

// Stats returns the counters accumulated since New.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Entries = c.order.Len()
	s.MaxEntries = c.maxEntries

	return s
}

// lookup counts a hit or miss and refreshes recency on a hit.
func (c *Cache[K, V]) lookup(key K) (*list.Element, bool) {
	el, ok := c.index[key]
	if !ok {
		c.stats.Misses++

		return nil, false
	}

	c.stats.Hits++
	c.order.MoveToFront(el)

	return el, true
}

func (c *Cache[K, V]) insert(key K, value V) {
	for c.order.Len() >= c.maxEntries {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.index, oldest.Value.(*item[K, V]).key)
		c.stats.Evictions++
	}

	c.index[key] = c.order.PushFront(&item[K, V]{key: key, value: value})
}
