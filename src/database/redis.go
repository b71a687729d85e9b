package database

import (
	"context"
	"fmt"
	"time"

	"github.com/accountd/api/src/config"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RedisClient wraps the redis client with our logger
type RedisClient struct {
	*redis.Client
	logger *logrus.Logger
}

// NewRedisConnection connects to Redis and verifies with a ping.
// Tokens and cached views live here, so startup fails fast on error.
func NewRedisConnection(cfg *config.Config, logger *logrus.Logger) (*RedisClient, error) {
	logger.WithField("addr", cfg.RedisAddr).Info("Connecting to Redis...")

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping redis (fail-fast): %w", err)
	}

	logger.Info("Redis connection established")

	return &RedisClient{
		Client: rdb,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (r *RedisClient) Close() error {
	if r.logger != nil {
		r.logger.Info("Closing Redis connection...")
	}
	return r.Client.Close()
}

// HealthCheck verifies the Redis connection is still alive
func (r *RedisClient) HealthCheck(ctx context.Context) error {
	if err := r.Ping(ctx).Err(); err != nil {
		if r.logger != nil {
			r.logger.WithError(err).Error("Redis health check failed")
		}
		return fmt.Errorf("redis health check failed: %w", err)
	}
	return nil
}
