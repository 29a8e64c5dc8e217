package app

import (
	"fmt"
	"strings"

	"spellingb/internal/domain"
)

const (
	glyphPass = "✅"
	glyphFail = "❌"
)

// FinalScore is the per-word reward for each correct word plus the time left
// when the session ended.
func FinalScore(state domain.SessionState) int {
	return state.CorrectCount*domain.PointsPerWord + state.TimeRemaining
}

// ShareSummary is the spoiler-free result a player can post.
type ShareSummary struct {
	DayIndex   int               `json:"dayIndex"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Results    []bool            `json:"results"`
	Score      int               `json:"score"`
	Correct    int               `json:"correct"`
	Total      int               `json:"total"`
	Streak     int               `json:"streak"`
}

// BuildShare derives a summary from a finished session. Pass/fail is
// re-graded from the attempt log with the same rule as Submit.
func BuildShare(state domain.SessionState, words []domain.WordEntry, streak, dayIndex int) ShareSummary {
	results := gradeAttempts(state.Attempts, words)
	correct := 0
	for _, ok := range results {
		if ok {
			correct++
		}
	}
	return ShareSummary{
		DayIndex:   dayIndex,
		Difficulty: state.Difficulty,
		Results:    results,
		Score:      state.Score,
		Correct:    correct,
		Total:      len(words),
		Streak:     streak,
	}
}

// Text renders the fixed multi-line share block.
func (s ShareSummary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "SpellingB #%d · %s\n", s.DayIndex, s.Difficulty.Label())
	for _, ok := range s.Results {
		if ok {
			b.WriteString(glyphPass)
		} else {
			b.WriteString(glyphFail)
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Score: %d\n", s.Score)
	fmt.Fprintf(&b, "Correct: %d/%d\n", s.Correct, s.Total)
	fmt.Fprintf(&b, "Streak: %d", s.Streak)
	return b.String()
}

func gradeAttempts(attempts []string, words []domain.WordEntry) []bool {
	out := make([]bool, len(words))
	for i, w := range words {
		if i < len(attempts) {
			out[i] = domain.SpellingMatches(attempts[i], w.Word)
		}
	}
	return out
}
