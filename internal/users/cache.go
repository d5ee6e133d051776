package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

// Cache keeps user rows in Redis for a short TTL so the quota check on
// every dispatch doesn't hit PostgreSQL each time. Entries are dropped
// whenever a history record is written for the user.
type Cache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewCache creates a user cache with the default TTL.
func NewCache(client redis.Cmdable) *Cache {
	return &Cache{client: client, ttl: cacheTTL}
}

func cacheKey(id uuid.UUID) string {
	return "user:" + id.String()
}

// Get returns the cached user, or nil on a miss.
func (c *Cache) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	data, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("getting cached user: %w", err)
	}

	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("unmarshaling cached user: %w", err)
	}
	return &user, nil
}

// Set stores the user with the cache TTL.
func (c *Cache) Set(ctx context.Context, user *User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshaling user for cache: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(user.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching user: %w", err)
	}
	return nil
}

// Invalidate drops the cached entry for the user.
func (c *Cache) Invalidate(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, cacheKey(id)).Err(); err != nil {
		return fmt.Errorf("invalidating cached user: %w", err)
	}
	return nil
}
