// README: Thread store backed by Redis. One JSON document per thread.
package thread

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "thread:"

type RedisStore struct {
	rdb *redis.Client
	// ttl of zero keeps threads forever.
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Thread, error) {
	if err := validID(id); err != nil {
		return nil, err
	}
	raw, err := s.rdb.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load thread %s: %w", id, err)
	}
	var t Thread
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", id, err)
	}
	return &t, nil
}

func (s *RedisStore) Save(ctx context.Context, t *Thread) error {
	if err := validID(t.ID); err != nil {
		return err
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("encode thread %s: %w", t.ID, err)
	}
	if err := s.rdb.Set(ctx, key(t.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save thread %s: %w", t.ID, err)
	}
	return nil
}
