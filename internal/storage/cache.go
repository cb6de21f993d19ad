package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"citizenhub/internal/complaint"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces complaint entries in a shared Redis.
const keyPrefix = "citizenhub:complaint:"

// Cached puts a Redis read-through cache in front of a repository.
//
// Track lookups are by far the most frequent call from the public portal;
// caching them keeps the SQL backends off the hot path.
//
// Consistency:
//   - Create and Update write through to the backend first, then refresh Redis
//   - Redis failures are logged and bypassed, the backend stays authoritative
//   - List is never cached
type Cached struct {
	next   complaint.Repository
	client *redis.Client
	ttl    time.Duration
}

// NewCached wraps next with a cache stored in client.
func NewCached(next complaint.Repository, client *redis.Client, ttl time.Duration) *Cached {
	return &Cached{next: next, client: client, ttl: ttl}
}

// NewRedisClient builds a client and checks connectivity.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	log.Printf("✓ Redis cache connected at %s", addr)
	return client, nil
}

// Create stores in the backend, then caches the new record.
func (c *Cached) Create(ctx context.Context, rec complaint.Record) error {
	if err := c.next.Create(ctx, rec); err != nil {
		return err
	}
	c.put(ctx, rec)
	return nil
}

// Get serves from Redis when possible and fills the cache on a miss.
func (c *Cached) Get(ctx context.Context, id int64) (complaint.Record, error) {
	raw, err := c.client.Get(ctx, cacheKey(id)).Bytes()
	if err == nil {
		var rec complaint.Record
		if jsonErr := json.Unmarshal(raw, &rec); jsonErr == nil {
			return rec, nil
		}
		log.Printf("  ⚠️  Corrupt cache entry for complaint %d, reloading", id)
	} else if err != redis.Nil {
		log.Printf("  ⚠️  Redis get failed for complaint %d: %v", id, err)
	}

	rec, err := c.next.Get(ctx, id)
	if err != nil {
		return complaint.Record{}, err
	}
	c.put(ctx, rec)
	return rec, nil
}

// Update writes through and refreshes the cached copy.
func (c *Cached) Update(ctx context.Context, rec complaint.Record) error {
	if err := c.next.Update(ctx, rec); err != nil {
		// the backend may have changed anyway; drop the entry rather than serve stale data
		c.client.Del(ctx, cacheKey(rec.ID))
		return err
	}
	c.put(ctx, rec)
	return nil
}

// List always reads from the backend.
func (c *Cached) List(ctx context.Context) ([]complaint.Record, error) {
	return c.next.List(ctx)
}

// Ping checks the Redis connection.
func (c *Cached) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client. The wrapped repository is closed by its owner.
func (c *Cached) Close() error {
	return c.client.Close()
}

func (c *Cached) put(ctx context.Context, rec complaint.Record) {
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(rec.ID), data, c.ttl).Err(); err != nil {
		log.Printf("  ⚠️  Redis set failed for complaint %d: %v", rec.ID, err)
	}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, id)
}
