package cachified

import (
	"container/list"
	"context"
	"sync"
)

// DefaultMemoryCapacity is the default maximum number of entries held by a
// MemoryCache.
const DefaultMemoryCapacity = 1000

// MemoryCache is an in-memory Cache backed by a mutex-guarded map with LRU
// eviction once capacity is reached. It does not enforce expiry: the engine
// owns freshness decisions, the store only holds entries — an expired entry
// must survive here for stale-while-revalidate to work.
type MemoryCache[T any] struct {
	mu       sync.RWMutex
	data     map[string]*list.Element
	order    *list.List // front = most recently used
	capacity int
}

type memoryItem[T any] struct {
	key   string
	entry Entry[T]
}

type memoryConfig struct {
	capacity int
}

// MemoryOption configures a MemoryCache.
type MemoryOption func(*memoryConfig)

// WithMemoryCapacity sets the maximum number of entries.
func WithMemoryCapacity(n int) MemoryOption {
	return func(c *memoryConfig) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// NewMemoryCache creates an in-memory cache with the given options.
func NewMemoryCache[T any](opts ...MemoryOption) *MemoryCache[T] {
	cfg := memoryConfig{capacity: DefaultMemoryCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &MemoryCache[T]{
		data:     make(map[string]*list.Element),
		order:    list.New(),
		capacity: cfg.capacity,
	}
}

// Get retrieves the entry for key and marks it recently used.
func (c *MemoryCache[T]) Get(_ context.Context, key string) (Entry[T], bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.data[key]
	if !ok {
		return Entry[T]{}, false, nil
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*memoryItem[T]).entry, true, nil
}

// Set stores the entry for key, evicting the least recently used entries
// once capacity is exceeded.
func (c *MemoryCache[T]) Set(_ context.Context, key string, entry Entry[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.data[key]; ok {
		elem.Value.(*memoryItem[T]).entry = entry
		c.order.MoveToFront(elem)
		return nil
	}

	c.data[key] = c.order.PushFront(&memoryItem[T]{key: key, entry: entry})
	for len(c.data) > c.capacity {
		c.evictOne()
	}
	return nil
}

func (c *MemoryCache[T]) evictOne() {
	elem := c.order.Back()
	if elem == nil {
		return
	}
	item := elem.Value.(*memoryItem[T])
	c.order.Remove(elem)
	delete(c.data, item.key)
}

// Delete removes the entry for key.
func (c *MemoryCache[T]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.data[key]; ok {
		c.order.Remove(elem)
		delete(c.data, key)
	}
	return nil
}

// Clear removes all entries.
func (c *MemoryCache[T]) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = make(map[string]*list.Element)
	c.order.Init()
	return nil
}

// Len returns the number of stored entries.
func (c *MemoryCache[T]) Len(context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data), nil
}

// Compile-time interface assertion.
var _ Cache[string] = (*MemoryCache[string])(nil)
