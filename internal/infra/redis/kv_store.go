package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// KVStore is a Redis implementation of app.KeyValueStore. Keys are written
// under prefix and never expire unless they match an expiry rule.
type KVStore struct {
	client *redis.Client
	prefix string
	expiry []expiryRule
}

type expiryRule struct {
	suffix string
	ttl    time.Duration
}

// KVOption customizes a KVStore.
type KVOption func(*KVStore)

// WithExpiringSuffix expires keys ending in suffix after ttl. A ttl of zero
// leaves them persistent.
func WithExpiringSuffix(suffix string, ttl time.Duration) KVOption {
	return func(s *KVStore) {
		if ttl > 0 {
			s.expiry = append(s.expiry, expiryRule{suffix: suffix, ttl: ttl})
		}
	}
}

func NewKVStore(client *redis.Client, prefix string, opts ...KVOption) *KVStore {
	s := &KVStore{client: client, prefix: prefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *KVStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttlFor(key)).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) ttlFor(key string) time.Duration {
	for _, r := range s.expiry {
		if strings.HasSuffix(key, r.suffix) {
			return r.ttl
		}
	}
	return 0
}
