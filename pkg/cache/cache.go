package cache

import (
	"context"
	"sync"
	"time"
)

type Item struct {
	Value      interface{}
	Expiration int64
}

// Cache is an in-process TTL map. It backs the rate limiter when Redis is
// disabled, so counters are per instance in that mode.
type Cache struct {
	items map[string]Item
	mu    sync.RWMutex
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

func NewCache(cleanupInterval time.Duration) *Cache {
	cache := &Cache{
		items: make(map[string]Item),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go cache.startGC(cleanupInterval)
	}
	return cache
}

func (c *Cache) Set(key string, value interface{}, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = Item{
		Value:      value,
		Expiration: c.now().Add(duration).UnixNano(),
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || c.now().UnixNano() > item.Expiration {
		return nil, false
	}

	return item.Value, true
}

func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

// IncrWindow implements a fixed-window counter with the same contract as the
// Redis client: the first hit opens a window of the given length.
func (c *Cache) IncrWindow(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	item, found := c.items[key]
	if !found || now.UnixNano() > item.Expiration {
		item = Item{Value: int64(0), Expiration: now.Add(window).UnixNano()}
	}

	count := item.Value.(int64) + 1
	item.Value = count
	c.items[key] = item

	return count, time.Duration(item.Expiration - now.UnixNano()), nil
}

// Close stops the cleanup goroutine.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) startGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			now := c.now().UnixNano()
			c.mu.Lock()
			for k, v := range c.items {
				if now > v.Expiration {
					delete(c.items, k)
				}
			}
			c.mu.Unlock()
		}
	}
}
