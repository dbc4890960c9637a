package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/ryhazerus/hitcount/store"
)

// Compile-time interface check.
var _ store.Store = (*RedisStore)(nil)

// RedisStore is a Store backed by Redis. Each counter is a plain Redis
// string key (no prefix, logical database taken from the client options),
// incremented with the INCR command. INCR is atomic on the server, which is
// what makes concurrent increments from multiple service instances safe.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Increment atomically increments the counter for the given key and returns
// the new count.
func (r *RedisStore) Increment(ctx context.Context, key string) (int64, error) {
	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("hitcount/store/redis: increment: %w", err)
	}
	return count, nil
}

// Get returns the current counter value for key, or 0 if it was never incremented.
func (r *RedisStore) Get(ctx context.Context, key string) (int64, error) {
	count, err := r.client.Get(ctx, key).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("hitcount/store/redis: get: %w", err)
	}
	return count, nil
}

// Ping checks that the Redis server answers commands.
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("hitcount/store/redis: ping: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
