package domain

import (
	"errors"
	"testing"
)

func TestStreakRecordConsecutiveDay(t *testing.T) {
	rec := StreakRecord{CurrentStreak: 3, LongestStreak: 3, LastPlayedDate: "2025-01-01", TotalGamesPlayed: 3, TotalScore: 200}

	got := rec.Record(80, "2025-01-02", 1)
	if got.CurrentStreak != 4 || got.LongestStreak != 4 {
		t.Fatalf("expected streak 4/4, got %d/%d", got.CurrentStreak, got.LongestStreak)
	}
	if got.TotalGamesPlayed != 4 || got.TotalScore != 280 || got.LastPlayedDate != "2025-01-02" {
		t.Fatalf("unexpected totals %+v", got)
	}
}

func TestStreakRecordGapResets(t *testing.T) {
	rec := StreakRecord{CurrentStreak: 5, LongestStreak: 7, LastPlayedDate: "2025-01-01"}

	got := rec.Record(10, "2025-01-03", 2)
	if got.CurrentStreak != 1 {
		t.Fatalf("expected reset to 1, got %d", got.CurrentStreak)
	}
	if got.LongestStreak != 7 {
		t.Fatalf("longest must survive a reset, got %d", got.LongestStreak)
	}
}

func TestStreakRecordSameDayAndBackdatedAreNoops(t *testing.T) {
	rec := StreakRecord{CurrentStreak: 2, LongestStreak: 2, LastPlayedDate: "2025-01-05", TotalGamesPlayed: 2}

	if got := rec.Record(99, "2025-01-05", 0); got != rec {
		t.Fatalf("same-day completion changed record: %+v", got)
	}
	if got := rec.Record(99, "2025-01-01", -4); got != rec {
		t.Fatalf("backdated completion changed record: %+v", got)
	}
}

func TestStreakRecordFirstGame(t *testing.T) {
	got := StreakRecord{}.Record(120, "2025-03-01", 0)
	if got.CurrentStreak != 1 || got.LongestStreak != 1 || got.TotalGamesPlayed != 1 || got.TotalScore != 120 {
		t.Fatalf("unexpected first record %+v", got)
	}
}

func TestSpellingMatches(t *testing.T) {
	cases := []struct {
		input, word string
		want        bool
	}{
		{"cat", "cat", true},
		{"  CAT ", "cat", true},
		{"Cat", " cAt", true},
		{"cta", "cat", false},
		{"", "cat", false},
		{"cats", "cat", false},
	}
	for _, c := range cases {
		if got := SpellingMatches(c.input, c.word); got != c.want {
			t.Fatalf("SpellingMatches(%q, %q) = %v, want %v", c.input, c.word, got, c.want)
		}
	}
}

func TestParseDifficultyAndMode(t *testing.T) {
	if d, err := ParseDifficulty(" Medium "); err != nil || d != DifficultyMedium {
		t.Fatalf("expected medium, got %q %v", d, err)
	}
	if _, err := ParseDifficulty("brutal"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
	}
	if m, err := ParseMode(""); err != nil || m != ModeDaily {
		t.Fatalf("expected daily default, got %q %v", m, err)
	}
	if _, err := ParseMode("ranked"); !errors.Is(err, ErrUnknownMode) {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
	if DifficultyHard.Label() != "Hard" {
		t.Fatalf("unexpected label %q", DifficultyHard.Label())
	}
}
