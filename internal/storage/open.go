package storage

import (
	"context"
	"fmt"
	"log"

	"citizenhub/internal/complaint"
	"citizenhub/internal/config"
)

// Store is a repository that owns resources released on shutdown.
type Store interface {
	complaint.Repository
	Close() error
}

// Open builds the repository selected by cfg.StoreDriver and, when
// REDIS_ADDR is set, wraps it with the Redis cache.
//
// An unreachable Redis is not fatal: the service runs uncached.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	var base Store

	switch cfg.StoreDriver {
	case config.DriverCSV:
		s, err := NewCSV(cfg.ComplaintsFile)
		if err != nil {
			return nil, err
		}
		base = s
	case config.DriverPgx, config.DriverMySQL, config.DriverSQLite:
		s, err := OpenSQL(ctx, cfg.StoreDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		base = s
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.RedisAddr == "" {
		return base, nil
	}

	client, err := NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("⚠️  Redis cache disabled: %v", err)
		return base, nil
	}
	return &cachedStore{Cached: NewCached(base, client, cfg.CacheTTL), base: base}, nil
}

// cachedStore closes both the cache client and the wrapped backend.
type cachedStore struct {
	*Cached
	base Store
}

func (c *cachedStore) Close() error {
	cacheErr := c.Cached.Close()
	if err := c.base.Close(); err != nil {
		return err
	}
	return cacheErr
}

// Ping checks Redis and, when it supports it, the wrapped backend.
func (c *cachedStore) Ping(ctx context.Context) error {
	if err := c.Cached.Ping(ctx); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	if p, ok := c.base.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	return nil
}
