package app

import (
	"strings"
	"unicode"

	"spellingb/internal/domain"
)

// IntentKind names a side effect a transition asks the caller to perform.
type IntentKind string

const (
	// IntentPlayWord asks for pronunciation playback of WordIndex.
	IntentPlayWord IntentKind = "play_word"
	// IntentStartTimer asks for a once-per-second Tick carrying Timer.
	IntentStartTimer IntentKind = "start_timer"
	// IntentStopTimer cancels the countdown; later ticks are stale.
	IntentStopTimer IntentKind = "stop_timer"
	// IntentFinished reports the session just reached its terminal phase.
	IntentFinished IntentKind = "finished"
)

// Intent is emitted by Game transitions instead of performing I/O.
type Intent struct {
	Kind      IntentKind
	WordIndex int
	AudioRef  string
	Timer     uint64
}

// Game is the session state machine. It is not safe for concurrent use;
// events are expected to be applied one at a time.
type Game struct {
	mode       domain.Mode
	difficulty domain.Difficulty
	words      []domain.WordEntry

	phase         domain.Phase
	timeRemaining int
	score         int
	correctCount  int
	currentIndex  int
	input         []rune
	attempts      []string

	// timer is bumped on every phase change so ticks from an earlier
	// countdown can be recognized and dropped.
	timer uint64
}

// NewGame returns a Ready game over words.
func NewGame(mode domain.Mode, difficulty domain.Difficulty, words []domain.WordEntry) *Game {
	g := &Game{mode: mode, difficulty: difficulty}
	g.load(words)
	return g
}

// RestoreFinished rebuilds a game from a persisted snapshot. Restored games
// are always Finished: they replay results and accept no input.
func RestoreFinished(state domain.SessionState, words []domain.WordEntry) *Game {
	g := &Game{
		mode:          state.Mode,
		difficulty:    state.Difficulty,
		words:         append([]domain.WordEntry(nil), words...),
		phase:         domain.PhaseFinished,
		timeRemaining: max(state.TimeRemaining, 0),
		score:         max(state.Score, 0),
		correctCount:  min(max(state.CorrectCount, 0), len(words)),
		currentIndex:  min(max(state.CurrentIndex, 0), len(words)),
		attempts:      make([]string, len(words)),
	}
	copy(g.attempts, state.Attempts)
	return g
}

func (g *Game) load(words []domain.WordEntry) {
	g.words = append([]domain.WordEntry(nil), words...)
	g.phase = domain.PhaseReady
	g.timeRemaining = domain.SessionSeconds
	g.score = 0
	g.correctCount = 0
	g.currentIndex = 0
	g.input = nil
	g.attempts = make([]string, len(words))
}

// Start begins the countdown. Daily games start only from Ready; practice
// games may be restarted at any time.
func (g *Game) Start() []Intent {
	if len(g.words) == 0 {
		return nil
	}
	if g.mode != domain.ModePractice && g.phase != domain.PhaseReady {
		return nil
	}
	g.load(g.words)
	g.phase = domain.PhasePlaying
	g.timer++
	return []Intent{
		{Kind: IntentStartTimer, Timer: g.timer},
		g.playCurrent(),
	}
}

// Tick advances the countdown by one second for the given timer. Ticks from
// a stopped timer or outside Playing are ignored.
func (g *Game) Tick(timer uint64) []Intent {
	if g.phase != domain.PhasePlaying || timer != g.timer {
		return nil
	}
	g.timeRemaining--
	if g.timeRemaining > 0 {
		return nil
	}
	g.timeRemaining = 0
	return g.finish()
}

// AppendChar adds a printable character to the input buffer.
func (g *Game) AppendChar(r rune) {
	if g.phase != domain.PhasePlaying || !unicode.IsPrint(r) || len(g.input) >= domain.MaxInputLength {
		return
	}
	g.input = append(g.input, r)
}

// Backspace drops the last character of the input buffer.
func (g *Game) Backspace() {
	if g.phase != domain.PhasePlaying || len(g.input) == 0 {
		return
	}
	g.input = g.input[:len(g.input)-1]
}

// SetInput replaces the input buffer, for clients that send whole words.
// Anything past MaxInputLength is dropped.
func (g *Game) SetInput(s string) {
	if g.phase != domain.PhasePlaying {
		return
	}
	g.input = g.input[:0]
	for _, r := range s {
		if len(g.input) == domain.MaxInputLength {
			break
		}
		if unicode.IsPrint(r) {
			g.input = append(g.input, r)
		}
	}
}

// Submit grades the input against the current word. An empty submission is
// an incorrect attempt.
func (g *Game) Submit() []Intent {
	if g.phase != domain.PhasePlaying || g.currentIndex >= len(g.words) {
		return nil
	}
	typed := strings.TrimSpace(string(g.input))
	g.attempts[g.currentIndex] = typed
	if domain.SpellingMatches(typed, g.words[g.currentIndex].Word) {
		g.correctCount++
		g.score += domain.PointsPerWord
	}

	if g.currentIndex+1 < len(g.words) && g.timeRemaining > 0 {
		g.currentIndex++
		g.input = nil
		return []Intent{g.playCurrent()}
	}
	return g.finish()
}

// Reset loads a fresh practice word list and returns to Ready. Daily games
// are terminal once finished.
func (g *Game) Reset(words []domain.WordEntry) bool {
	if g.mode != domain.ModePractice || g.phase == domain.PhasePlaying {
		return false
	}
	g.load(words)
	g.timer++
	return true
}

// finish applies the one-time time bonus and freezes the game.
func (g *Game) finish() []Intent {
	g.score += g.timeRemaining
	g.phase = domain.PhaseFinished
	g.input = nil
	g.timer++
	return []Intent{
		{Kind: IntentStopTimer},
		{Kind: IntentFinished},
	}
}

// Replay re-announces the current word, e.g. after a reconnect.
func (g *Game) Replay() []Intent {
	if g.phase != domain.PhasePlaying {
		return nil
	}
	return []Intent{g.playCurrent()}
}

func (g *Game) playCurrent() Intent {
	return Intent{
		Kind:      IntentPlayWord,
		WordIndex: g.currentIndex,
		AudioRef:  g.words[g.currentIndex].AudioRef,
	}
}

func (g *Game) Phase() domain.Phase { return g.phase }

func (g *Game) Mode() domain.Mode { return g.mode }

func (g *Game) Difficulty() domain.Difficulty { return g.difficulty }

func (g *Game) Timer() uint64 { return g.timer }

func (g *Game) Words() []domain.WordEntry { return g.words }

func (g *Game) Input() string { return string(g.input) }

// Current returns the word being played, if any.
func (g *Game) Current() (domain.WordEntry, bool) {
	if g.currentIndex >= len(g.words) {
		return domain.WordEntry{}, false
	}
	return g.words[g.currentIndex], true
}

// Snapshot copies the observable state.
func (g *Game) Snapshot() domain.SessionState {
	return domain.SessionState{
		Phase:         g.phase,
		Mode:          g.mode,
		Difficulty:    g.difficulty,
		TimeRemaining: g.timeRemaining,
		Score:         g.score,
		CorrectCount:  g.correctCount,
		CurrentIndex:  g.currentIndex,
		UserInput:     string(g.input),
		Attempts:      append([]string(nil), g.attempts...),
	}
}
