package draft

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by KV.Get when a key has no value. Store methods
// translate it into a (zero value, false) pair.
var ErrNotFound = errors.New("key not found")

// KV is the minimal key/value surface the draft stores need. Production
// code uses the Redis adapter below; tests substitute an in-memory map.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type redisKV struct{ rdb *redis.Client }

// NewRedisKV adapts a go-redis client to the KV interface.
func NewRedisKV(rdb *redis.Client) KV { return &redisKV{rdb: rdb} }

func (r *redisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (r *redisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.rdb.Set(ctx, key, value, ttl).Err()
}

func (r *redisKV) Del(ctx context.Context, keys ...string) error {
	return r.rdb.Del(ctx, keys...).Err()
}
