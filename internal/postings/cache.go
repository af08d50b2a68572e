package postings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/jobboard/internal/types"
	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long a fetched listing stays cached.
const DefaultCacheTTL = 60 * time.Second

// ListingKey is the cache key of the full postings listing.
const ListingKey = "jobboard:listing:all"

// ListingCache stores normalized listings between backend fetches.
// Get returns ErrCacheMiss when nothing is cached under key.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]types.JobPosting, error)
	Set(ctx context.Context, key string, posts []types.JobPosting, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisOptions configures a RedisCache.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisCache is a ListingCache backed by Redis.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed listing cache.
func NewRedisCache(opts RedisOptions) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	return &RedisCache{client: client}
}

// NewRedisCacheFromURL creates a cache from a redis:// URL.
func NewRedisCacheFromURL(rawURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

// Ping verifies the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]types.JobPosting, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var posts []types.JobPosting
	if err := json.Unmarshal(val, &posts); err != nil {
		return nil, fmt.Errorf("corrupt cached listing: %w", err)
	}
	return posts, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, posts []types.JobPosting, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to encode listing: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Close closes the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
