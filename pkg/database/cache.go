package database

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a bounded LRU with a per-entry time to live. Expired entries are
// not returned by Get but stay readable through GetStale until evicted.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	items   map[K]*list.Element
	order   *list.List
	maxSize int
	ttl     time.Duration
	now     func() time.Time
}

type cacheEntry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

// NewCache creates a cache holding at most maxSize entries (0 = unbounded).
// A ttl of 0 keeps entries fresh forever.
func NewCache[K comparable, V any](maxSize int, ttl time.Duration) *Cache[K, V] {
	return &Cache[K, V]{
		items:   make(map[K]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *Cache[K, V]) fresh(e *cacheEntry[K, V]) bool {
	return e.expires.IsZero() || c.now().Before(e.expires)
}

// Get returns a fresh value
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	elem, ok := c.items[key]
	if !ok {
		return zero, false
	}
	entry := elem.Value.(*cacheEntry[K, V])
	if !c.fresh(entry) {
		return zero, false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

// GetStale returns the value even if expired; fresh reports its state
func (c *Cache[K, V]) GetStale(key K) (value V, fresh bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, exists := c.items[key]
	if !exists {
		return value, false, false
	}
	entry := elem.Value.(*cacheEntry[K, V])
	return entry.value, c.fresh(entry), true
}

// Set stores a value and refreshes its expiry
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expires time.Time
	if c.ttl > 0 {
		expires = c.now().Add(c.ttl)
	}

	if elem, ok := c.items[key]; ok {
		entry := elem.Value.(*cacheEntry[K, V])
		entry.value = value
		entry.expires = expires
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&cacheEntry[K, V]{key: key, value: value, expires: expires})

	if c.maxSize > 0 && c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheEntry[K, V]).key)
	}
}

// Delete drops a key
func (c *Cache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

// Purge drops every entry
func (c *Cache[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element)
	c.order.Init()
}

// Len returns the number of stored entries, expired ones included
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
