package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix  = "coolpc:doc:"
	DefaultTTL = 30 * time.Minute
)

// DocumentCache keeps decoded quote pages in redis, keyed by source URL.
type DocumentCache struct {
	Client *redis.Client
	TTL    time.Duration
}

// New connects to the redis instance described by url.
func New(url string, ttl time.Duration) (*DocumentCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &DocumentCache{Client: redis.NewClient(opts), TTL: ttl}, nil
}

// Get returns false on a miss.
func (c *DocumentCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.Client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return val, true, nil
}

func (c *DocumentCache) Set(ctx context.Context, key, value string) error {
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := c.Client.Set(ctx, keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	log.Printf("[Cache] stored %s (%d bytes, ttl %s)", key, len(value), ttl)
	return nil
}

func (c *DocumentCache) Close() error {
	return c.Client.Close()
}
