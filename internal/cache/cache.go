// Package cache stores per-user dashboard responses in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache is nil-safe: a nil *Cache or one without a client never hits and
// ignores writes.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) enabled() bool {
	return c != nil && c.client != nil
}

func userKey(userID int64, name string) string {
	return fmt.Sprintf("studydesk:dashboard:%d:%s", userID, name)
}

func userSet(userID int64) string {
	return fmt.Sprintf("studydesk:dashboard:%d:keys", userID)
}

// Get decodes the cached value into dest. It reports false on a miss.
func (c *Cache) Get(ctx context.Context, userID int64, name string, dest interface{}) (bool, error) {
	if !c.enabled() {
		return false, nil
	}
	raw, err := c.client.Get(ctx, userKey(userID, name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("cache decode: %w", err)
	}
	return true, nil
}

func (c *Cache) Set(ctx context.Context, userID int64, name string, value interface{}) error {
	if !c.enabled() {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	key := userKey(userID, name)
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	pipe.SAdd(ctx, userSet(userID), key)
	pipe.Expire(ctx, userSet(userID), c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// InvalidateUser drops every cached dashboard view for the user.
func (c *Cache) InvalidateUser(ctx context.Context, userID int64) error {
	if !c.enabled() {
		return nil
	}
	set := userSet(userID)
	keys, err := c.client.SMembers(ctx, set).Result()
	if err != nil {
		return fmt.Errorf("cache members: %w", err)
	}
	keys = append(keys, set)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}
