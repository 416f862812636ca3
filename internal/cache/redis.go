package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLayer is the fast, short-TTL first cache layer.
type RedisLayer struct {
	client *redis.Client
}

func NewRedisLayer(client *redis.Client) *RedisLayer {
	return &RedisLayer{client: client}
}

func (r *RedisLayer) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("getting cached route: %w", err)
	}
	return val, true, nil
}

func (r *RedisLayer) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("caching route: %w", err)
	}
	return nil
}
