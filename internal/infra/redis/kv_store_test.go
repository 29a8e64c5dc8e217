package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"spellingb/internal/app"
	"spellingb/internal/calendar"
	"spellingb/internal/domain"
)

func TestKVStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewKVStore(newClient(mr), "spellingb:", WithExpiringSuffix(app.SessionKey, 48*time.Hour))

	if _, ok, err := store.Get(ctx, "device:a:streak"); ok || err != nil {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "device:a:streak", `{"currentStreak":2}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "device:a:daily:session", `{"date":"2025-01-02"}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("spellingb:device:a:streak") {
		t.Fatalf("expected redis key to be set")
	}
	if ttl := mr.TTL("spellingb:device:a:streak"); ttl != 0 {
		t.Fatalf("streak must not expire, got ttl %v", ttl)
	}
	if ttl := mr.TTL("spellingb:device:a:daily:session"); ttl != 48*time.Hour {
		t.Fatalf("expected snapshot ttl 48h, got %v", ttl)
	}
	v, ok, _ := store.Get(ctx, "device:a:streak")
	if !ok || v != `{"currentStreak":2}` {
		t.Fatalf("unexpected value %q", v)
	}

	if err := store.Remove(ctx, "device:a:streak"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if mr.Exists("spellingb:device:a:streak") {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestKVStoreKeepsStreakPastSnapshotExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	now := time.Date(2025, 1, 2, 17, 0, 0, 0, time.UTC)
	cal := calendar.MustNew(calendar.DefaultTimezone, calendar.DefaultEpoch, func() time.Time { return now })
	store := app.ScopedStore(NewKVStore(newClient(mr), "spellingb:", WithExpiringSuffix(app.SessionKey, 720*time.Hour)), "a")
	tracker := app.NewStreakTracker(store, cal, zerolog.Nop())
	gateway := app.NewGateway(store, zerolog.Nop())

	var rec domain.StreakRecord
	for day := 0; day < 10; day++ {
		date := cal.Today()
		state := domain.SessionState{Phase: domain.PhaseFinished, Mode: domain.ModeDaily, Difficulty: domain.DifficultyEasy, Score: 100}
		if err := gateway.Save(ctx, date, state); err != nil {
			t.Fatalf("save day %d: %v", day, err)
		}
		if rec, err = tracker.RecordCompletion(ctx, 100, date); err != nil {
			t.Fatalf("record day %d: %v", day, err)
		}
		now = now.Add(24 * time.Hour)
	}
	if rec.CurrentStreak != 10 || rec.TotalGamesPlayed != 10 {
		t.Fatalf("unexpected record before expiry %+v", rec)
	}

	mr.FastForward(31 * 24 * time.Hour)
	if mr.Exists("spellingb:device:a:daily:session") {
		t.Fatalf("daily snapshot should have expired")
	}
	got := tracker.Load(ctx)
	if got.LongestStreak != 10 || got.TotalGamesPlayed != 10 || got.TotalScore != 1000 {
		t.Fatalf("streak history lost after expiry window, got %+v", got)
	}
}

func TestKVStoreSurfacesConnectionErrors(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	store := NewKVStore(newClient(mr), "")
	mr.Close()

	if _, _, err := store.Get(context.Background(), "k"); err == nil {
		t.Fatalf("expected error from closed server")
	}
}
