package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/user"
)

const (
	// userCachePrefix is the Redis key prefix for cached user records.
	userCachePrefix = "user:id:"
	// userCacheTTL bounds how long a deleted user can still authenticate.
	userCacheTTL = 5 * time.Minute
)

// cachedUser is the wire form of a user record stored in Redis.
// The password hash is deliberately not cached.
type cachedUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// GetUser retrieves a cached user by ID.
// Returns nil if not found (cache miss).
func (c *Cache) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	key := userCachePrefix + id.String()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil
	}

	parsedID, err := uuid.Parse(cached.ID)
	if err != nil {
		return nil, nil
	}

	return &user.User{
		ID:       parsedID,
		Username: cached.Username,
	}, nil
}

// SetUser caches a user record.
func (c *Cache) SetUser(ctx context.Context, u *user.User) error {
	key := userCachePrefix + u.ID.String()

	data, err := json.Marshal(cachedUser{
		ID:       u.ID.String(),
		Username: u.Username,
	})
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	return c.client.Set(ctx, key, data, userCacheTTL).Err()
}

// DeleteUser removes a cached user record.
func (c *Cache) DeleteUser(ctx context.Context, id uuid.UUID) error {
	key := userCachePrefix + id.String()
	return c.client.Del(ctx, key).Err()
}
