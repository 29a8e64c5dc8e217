package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"spellingb/internal/calendar"
	"spellingb/internal/domain"
	"spellingb/internal/selector"
)

// KeyValueStore is the device-local string store (memory, SQLite, Redis).
// Get reports ok=false for a missing key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// WordRepository supplies the full word pool (from cache/backing store).
type WordRepository interface {
	GetPool(ctx context.Context) ([]domain.WordEntry, error)
}

// GameService wires storage, content and the calendar into per-device sessions.
type GameService struct {
	store KeyValueStore
	words WordRepository
	cal   *calendar.Calendar
	log   zerolog.Logger
}

func NewGameService(store KeyValueStore, words WordRepository, cal *calendar.Calendar, log zerolog.Logger) *GameService {
	return &GameService{store: store, words: words, cal: cal, log: log}
}

// NewSession creates an unopened session for a device. Nil sinks discard
// their intents.
func (s *GameService) NewSession(deviceID string, mode domain.Mode, difficulty domain.Difficulty, audio AudioSink, share ShareSink) *Session {
	id := uuid.NewString()
	store := ScopedStore(s.store, deviceID)
	log := s.log.With().Str("session", id).Str("device", deviceID).Logger()
	if audio == nil {
		audio = discardAudio{}
	}
	if share == nil {
		share = discardShare{}
	}
	return &Session{
		id:         id,
		deviceID:   deviceID,
		mode:       mode,
		difficulty: difficulty,
		words:      s.words,
		gateway:    NewGateway(store, log),
		streaks:    NewStreakTracker(store, s.cal, log),
		cal:        s.cal,
		audio:      audio,
		share:      share,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		log:        log,
	}
}

// Streak returns a device's stored record and the streak to display today.
func (s *GameService) Streak(ctx context.Context, deviceID string) (domain.StreakRecord, int) {
	tracker := NewStreakTracker(ScopedStore(s.store, deviceID), s.cal, s.log)
	rec := tracker.Load(ctx)
	return rec, tracker.DisplayStreak(rec)
}

// DailyInfo identifies a day's puzzle without revealing spellings.
type DailyInfo struct {
	Date       string            `json:"date"`
	DayIndex   int               `json:"dayIndex"`
	Difficulty domain.Difficulty `json:"difficulty"`
	WordIDs    []string          `json:"wordIds"`
}

// Today reports the current day of record and its word ids for difficulty.
func (s *GameService) Today(ctx context.Context, difficulty domain.Difficulty) (DailyInfo, error) {
	pool, err := loadPool(ctx, s.words, s.log)
	if err != nil {
		return DailyInfo{}, err
	}
	dayIndex := s.cal.TodayIndex()
	words := selector.SelectDaily(pool, difficulty, dayIndex)
	return DailyInfo{
		Date:       s.cal.Today(),
		DayIndex:   dayIndex,
		Difficulty: difficulty,
		WordIDs:    lo.Map(words, func(w domain.WordEntry, _ int) string { return w.ID }),
	}, nil
}

// loadPool fetches the pool and drops unplayable entries. Fewer than a
// session's worth of valid words is fatal for starting a game.
func loadPool(ctx context.Context, repo WordRepository, log zerolog.Logger) ([]domain.WordEntry, error) {
	pool, err := repo.GetPool(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrPoolUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrPoolUnavailable, err)
	}
	valid, invalid := lo.FilterReject(pool, func(w domain.WordEntry, _ int) bool {
		return w.Valid()
	})
	if len(invalid) > 0 {
		log.Warn().Int("dropped", len(invalid)).Msg("word pool contains invalid entries")
	}
	if len(valid) < domain.WordsPerSession {
		return nil, fmt.Errorf("%w: %d of %d needed", domain.ErrPoolUnderfilled, len(valid), domain.WordsPerSession)
	}
	return valid, nil
}

// ScopedStore namespaces every key under a device id.
func ScopedStore(store KeyValueStore, deviceID string) KeyValueStore {
	return scopedStore{inner: store, prefix: "device:" + deviceID + ":"}
}

type scopedStore struct {
	inner  KeyValueStore
	prefix string
}

func (s scopedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s scopedStore) Set(ctx context.Context, key, value string) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s scopedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}
