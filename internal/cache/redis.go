// Package cache provides a Redis-backed read-through cache for identity
// resolution. Cache misses are never errors; callers fall through to the
// durable store.
package cache

import (
	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client.
type Cache struct {
	client *redis.Client
}

// New creates a Cache backed by the given Redis client.
func New(client *redis.Client) *Cache {
	return &Cache{client: client}
}
