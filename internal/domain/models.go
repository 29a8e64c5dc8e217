package domain

import (
	"fmt"
	"strings"
)

const (
	// PointsPerWord is awarded for every correctly spelled word.
	PointsPerWord = 50
	// SessionSeconds is the countdown a session starts with.
	SessionSeconds = 60
	// WordsPerSession is the size of every daily and practice word list.
	WordsPerSession = 3
	// MaxInputLength caps the typed buffer in runes.
	MaxInputLength = 64
)

// Difficulty is the track a word belongs to.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists every track in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty accepts a case-insensitive difficulty name.
func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, raw)
	}
	return d, nil
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Label is the capitalized name shown in share summaries.
func (d Difficulty) Label() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Mode separates the once-a-day game from unlimited practice.
type Mode string

const (
	ModeDaily    Mode = "daily"
	ModePractice Mode = "practice"
)

// ParseMode accepts a case-insensitive mode name; empty means daily.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeDaily:
		return ModeDaily, nil
	case ModePractice:
		return ModePractice, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, raw)
}

// Phase is the session lifecycle: ready -> playing -> finished.
type Phase string

const (
	PhaseReady    Phase = "ready"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// WordEntry is supplied by the content pipeline and never mutated here.
type WordEntry struct {
	ID         string     `json:"id"`
	Word       string     `json:"word"`
	Definition string     `json:"definition"`
	AudioRef   string     `json:"audioRef"`
	Difficulty Difficulty `json:"difficulty"`
}

// Valid reports whether the entry can be played.
func (w WordEntry) Valid() bool {
	return strings.TrimSpace(w.ID) != "" && strings.TrimSpace(w.Word) != "" && w.Difficulty.Valid()
}

// SessionState is the persisted snapshot of a game.
type SessionState struct {
	Phase         Phase      `json:"phase"`
	Mode          Mode       `json:"mode"`
	Difficulty    Difficulty `json:"difficulty"`
	TimeRemaining int        `json:"timeRemaining"`
	Score         int        `json:"score"`
	CorrectCount  int        `json:"correctCount"`
	CurrentIndex  int        `json:"currentIndex"`
	UserInput     string     `json:"userInput"`
	Attempts      []string   `json:"attempts"`
}

// StreakRecord is the per-device play history.
type StreakRecord struct {
	CurrentStreak    int    `json:"currentStreak"`
	LongestStreak    int    `json:"longestStreak"`
	LastPlayedDate   string `json:"lastPlayedDate,omitempty"`
	TotalGamesPlayed int    `json:"totalGamesPlayed"`
	TotalScore       int    `json:"totalScore"`
}

// Record applies a daily completion on date, where daysSinceLast is the
// civil-day distance from LastPlayedDate (ignored on the first game).
// Same-day and backdated completions leave the record untouched.
func (r StreakRecord) Record(finalScore int, date string, daysSinceLast int) StreakRecord {
	switch {
	case r.LastPlayedDate == "":
		r.CurrentStreak = 1
	case daysSinceLast <= 0:
		return r
	case daysSinceLast == 1:
		r.CurrentStreak++
	default:
		r.CurrentStreak = 1
	}
	if r.CurrentStreak > r.LongestStreak {
		r.LongestStreak = r.CurrentStreak
	}
	r.TotalGamesPlayed++
	r.TotalScore += finalScore
	r.LastPlayedDate = date
	return r
}

// SpellingMatches compares a typed answer with the canonical spelling:
// both sides trimmed and lowercased, then exact equality.
func SpellingMatches(input, word string) bool {
	return normalizeSpelling(input) == normalizeSpelling(word)
}

func normalizeSpelling(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
