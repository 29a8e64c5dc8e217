package selector

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"spellingb/internal/domain"
)

func samplePool() []domain.WordEntry {
	var pool []domain.WordEntry
	for _, d := range domain.Difficulties {
		for i := 0; i < 12; i++ {
			pool = append(pool, domain.WordEntry{
				ID:         fmt.Sprintf("%s-%02d", d, i),
				Word:       fmt.Sprintf("%sword%d", d, i),
				Definition: "a word",
				AudioRef:   fmt.Sprintf("audio/%s-%02d.mp3", d, i),
				Difficulty: d,
			})
		}
	}
	return pool
}

func ids(words []domain.WordEntry) []string {
	out := make([]string, len(words))
	for i, w := range words {
		out[i] = w.ID
	}
	return out
}

func TestSelectDailyIsDeterministic(t *testing.T) {
	pool := samplePool()
	for day := -3; day < 60; day++ {
		for _, d := range domain.Difficulties {
			first := SelectDaily(pool, d, day)
			second := SelectDaily(pool, d, day)
			if !reflect.DeepEqual(first, second) {
				t.Fatalf("day %d %s: %v != %v", day, d, ids(first), ids(second))
			}
			if len(first) != domain.WordsPerSession {
				t.Fatalf("expected %d words, got %d", domain.WordsPerSession, len(first))
			}
			for _, w := range first {
				if w.Difficulty != d {
					t.Fatalf("day %d: word %s is not %s", day, w.ID, d)
				}
			}
		}
	}
}

func TestSelectDailyDoesNotMutatePool(t *testing.T) {
	pool := samplePool()
	before := ids(pool)
	_ = SelectDaily(pool, domain.DifficultyEasy, 7)
	_ = SelectPractice(pool, domain.DifficultyHard, rand.New(rand.NewSource(1)))
	if !reflect.DeepEqual(before, ids(pool)) {
		t.Fatalf("pool order changed")
	}
}

func TestSelectDailyVariesByDay(t *testing.T) {
	pool := samplePool()
	seen := map[string]struct{}{}
	for day := 0; day < 30; day++ {
		seen[fmt.Sprint(ids(SelectDaily(pool, domain.DifficultyMedium, day)))] = struct{}{}
	}
	if len(seen) < 20 {
		t.Fatalf("expected the selection to vary across days, saw %d distinct lists", len(seen))
	}
}

func TestSelectDailyKnownSequence(t *testing.T) {
	// Pins the generator so a refactor cannot silently change every
	// player's words.
	next := lcg(0)
	want := []uint32{1013904223, 1196435762, 3519870697}
	for i, w := range want {
		if got := next(); got != w {
			t.Fatalf("lcg step %d = %d, want %d", i, got, w)
		}
	}
	if Seed(42, domain.DifficultyEasy) != 42 || Seed(42, domain.DifficultyHard) != 2042 {
		t.Fatalf("unexpected seeds")
	}
	if Seed(-1, domain.DifficultyEasy) != ^uint32(0) {
		t.Fatalf("negative day index should wrap")
	}
}

func TestSelectDailyFallsBackWhenTrackIsThin(t *testing.T) {
	pool := []domain.WordEntry{
		{ID: "1", Word: "cat", Difficulty: domain.DifficultyEasy},
		{ID: "2", Word: "frog", Difficulty: domain.DifficultyEasy},
		{ID: "3", Word: "lamp", Difficulty: domain.DifficultyEasy},
		{ID: "4", Word: "rhythm", Difficulty: domain.DifficultyHard},
	}
	got := SelectDaily(pool, domain.DifficultyHard, 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 words from the unfiltered pool, got %v", ids(got))
	}
	easy := SelectDaily(pool, domain.DifficultyEasy, 3)
	for _, w := range easy {
		if w.Difficulty != domain.DifficultyEasy {
			t.Fatalf("easy track had enough words, got %v", ids(easy))
		}
	}
}

func TestSelectPracticeUsesFilter(t *testing.T) {
	pool := samplePool()
	rng := rand.New(rand.NewSource(99))
	got := SelectPractice(pool, domain.DifficultyHard, rng)
	if len(got) != domain.WordsPerSession {
		t.Fatalf("expected %d words, got %d", domain.WordsPerSession, len(got))
	}
	for _, w := range got {
		if w.Difficulty != domain.DifficultyHard {
			t.Fatalf("unexpected difficulty for %s", w.ID)
		}
	}
}
