// Package cache provides a redis-backed JSON cache for read-mostly lookups.
// A disabled cache is a no-op that always misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JaimeStill/tolerance/pkg/lifecycle"
)

// System stores JSON-encoded values under namespaced keys.
type System interface {
	// Get decodes the value at key into dest. Reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores v at key with the configured TTL.
	Set(ctx context.Context, key string, v any) error
	// Ready reports whether the cache is reachable. A disabled cache is always ready.
	Ready() bool
	// Start registers startup and shutdown hooks with the lifecycle coordinator.
	Start(lc *lifecycle.Coordinator) error
}

// New returns a redis-backed System, or a no-op System when caching is disabled.
func New(cfg *Config, logger *slog.Logger) System {
	if !cfg.Enabled {
		return disabled{}
	}

	timeout := cfg.TimeoutDuration()
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	return &redisCache{
		client:  client,
		prefix:  cfg.Prefix,
		ttl:     cfg.TTLDuration(),
		timeout: timeout,
		logger:  logger.With("system", "cache"),
	}
}

// Key joins parts into a cache key segment, lowercasing and trimming each part.
func Key(parts ...string) string {
	norm := make([]string, len(parts))
	for i, p := range parts {
		norm[i] = strings.ToLower(strings.TrimSpace(p))
	}
	return strings.Join(norm, ":")
}

// Fetch reads key through the cache, calling load on a miss and storing its
// result. Cache failures are logged and treated as misses.
func Fetch[T any](ctx context.Context, sys System, logger *slog.Logger, key string, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := sys.Get(ctx, key, &cached)
	if err != nil {
		logger.DebugContext(ctx, "cache read failed", "key", key, "error", err)
	}
	if hit {
		return cached, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if err := sys.Set(ctx, key, v); err != nil {
		logger.DebugContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return v, nil
}

type redisCache struct {
	client  *redis.Client
	prefix  string
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
	ready   atomic.Bool
}

func (c *redisCache) key(k string) string {
	return c.prefix + ":" + k
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.client.Set(ctx, c.key(key), data, c.ttl).Err()
}

func (c *redisCache) Ready() bool {
	return c.ready.Load()
}

func (c *redisCache) Start(lc *lifecycle.Coordinator) error {
	c.logger.Info("starting cache connection")

	lc.Register("cache", c)

	lc.OnStartup(func() {
		ctx, cancel := context.WithTimeout(lc.Context(), c.timeout*4)
		defer cancel()

		if err := c.client.Ping(ctx).Err(); err != nil {
			c.logger.Error("cache ping failed", "error", err)
			return
		}

		c.ready.Store(true)
		c.logger.Info("cache connection established")
	})

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		c.ready.Store(false)

		if err := c.client.Close(); err != nil {
			c.logger.Error("cache close failed", "error", err)
			return
		}
		c.logger.Info("cache connection closed")
	})

	return nil
}

type disabled struct{}

func (disabled) Get(context.Context, string, any) (bool, error) { return false, nil }
func (disabled) Set(context.Context, string, any) error         { return nil }
func (disabled) Ready() bool                                    { return true }
func (disabled) Start(*lifecycle.Coordinator) error             { return nil }
