// Package cache provides a small in-process read-through cache.
package cache

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// ReadThrough caches the results of a loader by key for a fixed TTL.
//
// Concurrent misses for the same key share a single load. A load that
// overlaps an invalidation is returned to its callers but not stored, so
// a stale value never outlives the write that invalidated it.
type ReadThrough[V any] struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group

	mu         sync.Mutex
	entries    map[string]entry[V]
	generation uint64
}

// NewReadThrough creates a cache whose entries expire after ttl.
// A ttl <= 0 disables caching; every Get calls the loader.
func NewReadThrough[V any](ttl time.Duration) *ReadThrough[V] {
	return &ReadThrough[V]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key, calling load on a miss.
func (c *ReadThrough[V]) Get(ctx context.Context, key string, load func(context.Context) (V, error)) (V, error) {
	if c.ttl <= 0 {
		return load(ctx)
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expiresAt) {
		c.mu.Unlock()
		return e.value, nil
	}
	gen := c.generation
	c.mu.Unlock()

	// Keying the flight by generation keeps callers arriving after an
	// invalidation from joining a load that started before it.
	flight := key + "@" + strconv.FormatUint(gen, 10)
	// The shared load outlives any single caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flight, func() (any, error) {
		v, err := load(loadCtx)
		if err != nil {
			return v, err
		}
		c.mu.Lock()
		if c.generation == gen {
			c.entries[key] = entry[V]{value: v, expiresAt: c.now().Add(c.ttl)}
		}
		c.mu.Unlock()
		return v, nil
	})

	var zero V
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		val, _ := res.Val.(V)
		return val, nil
	}
}

// Invalidate drops a single key.
func (c *ReadThrough[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	delete(c.entries, key)
}

// InvalidatePrefix drops every key starting with prefix.
func (c *ReadThrough[V]) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}

// InvalidateAll empties the cache.
func (c *ReadThrough[V]) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	clear(c.entries)
}

// Len reports the number of stored entries, expired ones included.
func (c *ReadThrough[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
