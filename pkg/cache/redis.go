package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOption configures the Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
}

// WithKeyPrefix prepends prefix verbatim to every key.
func WithKeyPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// WithRedisDefaultTTL sets the TTL applied on Set with zero TTL. Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		if d > 0 {
			o.defaultTTL = d
		}
	}
}

// Redis is a cache backed by a go-redis client. The client lifecycle is
// owned by the caller.
type Redis[V any] struct {
	client    redis.UniversalClient
	opts      redisOptions
	marshaler Marshaler[V]
}

// NewRedis creates a Redis-backed cache. A nil Marshaler selects JSON.
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	o := redisOptions{defaultTTL: time.Hour}
	for _, opt := range opts {
		opt(&o)
	}
	if m == nil {
		m = jsonMarshaler[V]{}
	}
	return &Redis[V]{client: client, opts: o, marshaler: m}
}

func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}

	return r.marshaler.Unmarshal(data)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = r.opts.defaultTTL
	}
	return r.client.Set(ctx, r.key(key), data, ttl).Err()
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

// Close is a no-op; close the client with pkg/redis.Shutdown.
func (r *Redis[V]) Close() error {
	return nil
}

func (r *Redis[V]) key(k string) string {
	return r.opts.prefix + k
}

var _ Cache[any] = (*Redis[any])(nil)
