package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the session record under a single Redis key. It exists
// for shared-terminal deployments (department kiosks) where the session must
// follow the storage origin rather than one machine's disk.
//
//	Performance: 1 Redis command per operation.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	key    string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store writing to prefix:key. An empty key falls
// back to [DefaultKey]; an empty prefix to "accred".
func NewRedisStore(client redis.UniversalClient, prefix, key string) *RedisStore {
	if prefix == "" {
		prefix = "accred"
	}
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{redis: client, prefix: prefix, key: key}
}

func (r *RedisStore) storageKey() string {
	return r.prefix + ":" + r.key
}

// Save writes the record with no TTL: the session lives until explicit
// logout or manual clearing, mirroring the store's durable-storage contract.
func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	if err := r.redis.Set(ctx, r.storageKey(), data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Read returns the stored record.
func (r *RedisStore) Read(ctx context.Context) (*Session, error) {
	data, err := r.redis.Get(ctx, r.storageKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrAbsent
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return Decode(data)
}

// Clear deletes the key. Idempotent.
func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.redis.Del(ctx, r.storageKey()).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
