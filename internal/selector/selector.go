// Package selector picks the words a session is played with.
//
// Daily selection must be identical for every player on a given day without
// any coordination, so it is driven by a fixed linear congruential generator
// seeded from the day index instead of a platform random source.
package selector

import (
	"math/rand"

	"github.com/samber/lo"

	"spellingb/internal/domain"
)

// Numerical Recipes LCG constants, arithmetic mod 2^32.
const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
)

// difficultyOffsets keep each track on an independent sequence.
var difficultyOffsets = map[domain.Difficulty]int{
	domain.DifficultyEasy:   0,
	domain.DifficultyMedium: 1000,
	domain.DifficultyHard:   2000,
}

// Seed combines a day index with the difficulty track.
func Seed(dayIndex int, difficulty domain.Difficulty) uint32 {
	return uint32(int64(dayIndex) + int64(difficultyOffsets[difficulty]))
}

// SelectDaily returns the day's words for a difficulty. The pool is never
// modified and the result depends only on the arguments.
func SelectDaily(pool []domain.WordEntry, difficulty domain.Difficulty, dayIndex int) []domain.WordEntry {
	candidates := Candidates(pool, difficulty)
	next := lcg(Seed(dayIndex, difficulty))
	shuffle(candidates, func(n int) int {
		return int(uint64(next()) * uint64(n) >> 32)
	})
	return head(candidates)
}

// SelectPractice draws a random word list with the same filtering rules.
func SelectPractice(pool []domain.WordEntry, difficulty domain.Difficulty, rng *rand.Rand) []domain.WordEntry {
	candidates := Candidates(pool, difficulty)
	shuffle(candidates, rng.Intn)
	return head(candidates)
}

// Candidates is a fresh copy of the pool entries for difficulty. When fewer
// than a session's worth match, the whole pool is used instead.
func Candidates(pool []domain.WordEntry, difficulty domain.Difficulty) []domain.WordEntry {
	matched := lo.Filter(pool, func(w domain.WordEntry, _ int) bool {
		return w.Difficulty == difficulty
	})
	if len(matched) >= domain.WordsPerSession {
		return matched
	}
	return append([]domain.WordEntry(nil), pool...)
}

// lcg returns a generator yielding successive 32-bit states.
func lcg(seed uint32) func() uint32 {
	state := seed
	return func() uint32 {
		state = state*lcgMultiplier + lcgIncrement
		return state
	}
}

// shuffle is Fisher-Yates; intn(n) must return a value in [0, n).
func shuffle(words []domain.WordEntry, intn func(n int) int) {
	for i := len(words) - 1; i > 0; i-- {
		j := intn(i + 1)
		words[i], words[j] = words[j], words[i]
	}
}

func head(words []domain.WordEntry) []domain.WordEntry {
	if len(words) > domain.WordsPerSession {
		return words[:domain.WordsPerSession]
	}
	return words
}
