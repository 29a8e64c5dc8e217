package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"spellingb/internal/domain"
)

// WordLoader fetches the word pool from a backing store (file, Postgres).
type WordLoader interface {
	LoadWords(ctx context.Context) ([]domain.WordEntry, error)
}

// PoolKey holds the JSON-encoded word pool.
const PoolKey = "words:pool"

// WordPoolRepository caches the word pool in Redis and falls back to a
// loader on cache miss. The whole pool is stored as one JSON string so every
// instance selects from the same ordering.
type WordPoolRepository struct {
	client *redis.Client
	loader WordLoader
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewWordPoolRepository(client *redis.Client, loader WordLoader, ttl time.Duration) *WordPoolRepository {
	return &WordPoolRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *WordPoolRepository) GetPool(ctx context.Context) ([]domain.WordEntry, error) {
	if pool, ok := r.cached(ctx); ok {
		return pool, nil
	}

	result, err, _ := r.sf.Do(PoolKey, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if pool, ok := r.cached(ctx); ok {
			return pool, nil
		}

		pool, err := r.loader.LoadWords(ctx)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(pool); err == nil {
			_ = r.client.Set(ctx, PoolKey, raw, r.ttlWithJitter()).Err()
		}
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]domain.WordEntry(nil), result.([]domain.WordEntry)...), nil
}

// Invalidate removes the cached pool, e.g. after reseeding.
func (r *WordPoolRepository) Invalidate(ctx context.Context) error {
	return r.client.Del(ctx, PoolKey).Err()
}

// cached treats redis errors and undecodable payloads as a miss.
func (r *WordPoolRepository) cached(ctx context.Context) ([]domain.WordEntry, bool) {
	raw, err := r.client.Get(ctx, PoolKey).Bytes()
	if err != nil {
		return nil, false
	}
	var pool []domain.WordEntry
	if err := json.Unmarshal(raw, &pool); err != nil || len(pool) == 0 {
		return nil, false
	}
	return pool, true
}

func (r *WordPoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
