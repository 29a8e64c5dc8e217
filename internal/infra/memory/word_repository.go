package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"spellingb/internal/domain"
)

// WordLoader fetches the word pool from a backing store (file, Postgres).
type WordLoader interface {
	LoadWords(ctx context.Context) ([]domain.WordEntry, error)
}

const poolKey = "pool"

// WordPoolRepository caches the word pool with TTL to avoid repeated loads.
type WordPoolRepository struct {
	loader WordLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu     sync.RWMutex
	cached []domain.WordEntry
	expiry time.Time
}

func NewWordPoolRepository(loader WordLoader, ttl time.Duration) *WordPoolRepository {
	return &WordPoolRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *WordPoolRepository) GetPool(ctx context.Context) ([]domain.WordEntry, error) {
	if pool, ok := r.fresh(r.clock()); ok {
		return pool, nil
	}

	result, err, _ := r.sf.Do(poolKey, func() (interface{}, error) {
		now := r.clock()
		if pool, ok := r.fresh(now); ok {
			return pool, nil
		}

		pool, err := r.loader.LoadWords(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cached = pool
		r.expiry = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return clonePool(result.([]domain.WordEntry)), nil
}

// Invalidate drops the cached pool so the next read reloads it.
func (r *WordPoolRepository) Invalidate() {
	r.mu.Lock()
	r.cached = nil
	r.expiry = time.Time{}
	r.mu.Unlock()
}

func (r *WordPoolRepository) fresh(now time.Time) ([]domain.WordEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cached == nil || !r.expiry.After(now) {
		return nil, false
	}
	return clonePool(r.cached), true
}

func (r *WordPoolRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticWordLoader serves a fixed pool (useful for tests/demos).
type StaticWordLoader struct {
	words []domain.WordEntry
}

func NewStaticWordLoader(words []domain.WordEntry) *StaticWordLoader {
	return &StaticWordLoader{words: clonePool(words)}
}

func (l *StaticWordLoader) LoadWords(_ context.Context) ([]domain.WordEntry, error) {
	if len(l.words) == 0 {
		return nil, domain.ErrPoolUnavailable
	}
	return clonePool(l.words), nil
}

func clonePool(words []domain.WordEntry) []domain.WordEntry {
	return append([]domain.WordEntry(nil), words...)
}
