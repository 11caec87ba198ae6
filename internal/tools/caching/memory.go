package caching

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 10 * time.Minute

// memoryCache keeps values in process, for running without Redis.
type memoryCache struct {
	items *gocache.Cache
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		items: gocache.New(gocache.NoExpiration, memoryCleanupInterval),
	}
}

func (c *memoryCache) Store(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.items.Set(key, stored, ttl)

	return nil
}

func (c *memoryCache) Fetch(ctx context.Context, key string) ([]byte, error) {
	item, found := c.items.Get(key)
	if !found {
		return nil, ErrMiss
	}

	return item.([]byte), nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.items.Delete(key)

	return nil
}
