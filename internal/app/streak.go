package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"spellingb/internal/calendar"
	"spellingb/internal/domain"
)

const streakKey = "streak"

// StreakTracker keeps consecutive-day play history for one device.
type StreakTracker struct {
	store KeyValueStore
	cal   *calendar.Calendar
	log   zerolog.Logger
}

func NewStreakTracker(store KeyValueStore, cal *calendar.Calendar, log zerolog.Logger) *StreakTracker {
	return &StreakTracker{store: store, cal: cal, log: log}
}

// Load returns the stored record, or a zero record when absent or corrupt.
func (t *StreakTracker) Load(ctx context.Context) domain.StreakRecord {
	raw, ok, err := t.store.Get(ctx, streakKey)
	if err != nil {
		t.log.Warn().Err(err).Msg("read streak failed")
		return domain.StreakRecord{}
	}
	if !ok {
		return domain.StreakRecord{}
	}
	var rec domain.StreakRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || !validStreak(rec) {
		t.log.Warn().Err(err).Msg("discarding corrupt streak record")
		if err := t.store.Remove(ctx, streakKey); err != nil {
			t.log.Warn().Err(err).Msg("remove streak failed")
		}
		return domain.StreakRecord{}
	}
	return rec
}

// RecordCompletion counts a finished daily game played on date. Repeat calls
// for the same day leave the record unchanged.
func (t *StreakTracker) RecordCompletion(ctx context.Context, finalScore int, date string) (domain.StreakRecord, error) {
	rec := t.Load(ctx)
	if rec.LastPlayedDate == date {
		return rec, nil
	}
	gap := 0
	if rec.LastPlayedDate != "" {
		var err error
		if gap, err = calendar.DaysBetween(rec.LastPlayedDate, date); err != nil {
			return rec, err
		}
	}
	next := rec.Record(finalScore, date, gap)
	if next == rec {
		return rec, nil
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return rec, fmt.Errorf("encode streak: %w", err)
	}
	if err := t.store.Set(ctx, streakKey, string(raw)); err != nil {
		return rec, fmt.Errorf("save streak: %w", err)
	}
	return next, nil
}

// IsActive reports whether rec was last played today or yesterday.
func (t *StreakTracker) IsActive(rec domain.StreakRecord) bool {
	return rec.LastPlayedDate != "" &&
		(rec.LastPlayedDate == t.cal.Today() || rec.LastPlayedDate == t.cal.Yesterday())
}

// DisplayStreak shows a lapsed streak as zero without rewriting history.
func (t *StreakTracker) DisplayStreak(rec domain.StreakRecord) int {
	if !t.IsActive(rec) {
		return 0
	}
	return rec.CurrentStreak
}

func validStreak(r domain.StreakRecord) bool {
	if r.CurrentStreak < 0 || r.CurrentStreak > r.LongestStreak || r.TotalGamesPlayed < 0 || r.TotalScore < 0 {
		return false
	}
	return r.LastPlayedDate == "" || calendar.ValidDateKey(r.LastPlayedDate)
}
