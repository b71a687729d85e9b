package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// ViewCache is a generic JSON-backed Redis cache for read projections.
// Bind it to a specific view type T; pass ttl 0 for keys that should not expire.
type ViewCache[T any] struct {
	redis  *RedisClient
	ttl    time.Duration
	logger *logrus.Logger
}

// NewViewCache creates a ViewCache backed by the shared Redis client
func NewViewCache[T any](redis *RedisClient, ttl time.Duration, logger *logrus.Logger) *ViewCache[T] {
	return &ViewCache[T]{redis: redis, ttl: ttl, logger: logger}
}

// Get retrieves and unmarshals a value.
// Returns (nil, false) on any miss or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set marshals value and stores it under key.
// Errors are logged rather than returned, a cache write miss is non-fatal.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("ViewCache marshal failed")
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("ViewCache write failed")
	}
}

// Delete removes a key
func (c *ViewCache[T]) Delete(ctx context.Context, key string) {
	if err := c.redis.Del(ctx, key).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("ViewCache delete failed")
	}
}
