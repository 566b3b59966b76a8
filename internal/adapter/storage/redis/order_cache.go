package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// OrderCache implements ports.OrderCache using Redis. It marks completed
// (application, orderNo) keys so repeat payments can be rejected without a
// database round trip. The database stays authoritative: cache misses fall
// through to the transactional duplicate check.
type OrderCache struct {
	client *goredis.Client
	prefix string
}

// NewOrderCache creates a new Redis-backed completed-order cache.
func NewOrderCache(client *goredis.Client) *OrderCache {
	return &OrderCache{
		client: client,
		prefix: "order:",
	}
}

// Get retrieves a completed-order marker. Returns nil, nil if the key does
// not exist.
func (c *OrderCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis order get: %w", err)
	}
	return val, nil
}

// Set stores a completed-order marker with TTL.
func (c *OrderCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+key, value, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis order set: %w", err)
	}
	return nil
}
