package app

import (
	"context"
	"math/rand"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"spellingb/internal/calendar"
	"spellingb/internal/domain"
	"spellingb/internal/selector"
)

// AudioSink plays a pronunciation. Failures are logged and never block play.
type AudioSink interface {
	Play(ctx context.Context, audioRef string) error
}

// ShareOutcome tells the caller whether the share was taken care of.
type ShareOutcome string

const (
	ShareHandled             ShareOutcome = "handled"
	ShareFallbackToClipboard ShareOutcome = "fallback_to_clipboard"
)

// ShareSink offers share text to the player.
type ShareSink interface {
	OfferShare(ctx context.Context, text string) (ShareOutcome, error)
}

type discardAudio struct{}

func (discardAudio) Play(context.Context, string) error { return nil }

type discardShare struct{}

func (discardShare) OfferShare(context.Context, string) (ShareOutcome, error) {
	return ShareFallbackToClipboard, nil
}

// Session drives one device's game. It owns its Game and is meant to be used
// from a single goroutine, one event at a time.
type Session struct {
	id         string
	deviceID   string
	mode       domain.Mode
	difficulty domain.Difficulty

	words   WordRepository
	gateway *Gateway
	streaks *StreakTracker
	cal     *calendar.Calendar
	audio   AudioSink
	share   ShareSink
	rng     *rand.Rand
	log     zerolog.Logger

	// date and dayIndex pin the day of record at Open; a game that runs
	// past midnight still belongs to the day it started.
	date     string
	dayIndex int

	pool   []domain.WordEntry
	game   *Game
	masked []string
	streak domain.StreakRecord
}

// Open loads the word pool and, for the daily game, today's snapshot. It
// must complete before the session reports a phase.
func (s *Session) Open(ctx context.Context) error {
	pool, err := loadPool(ctx, s.words, s.log)
	if err != nil {
		return err
	}
	s.pool = pool
	s.streak = s.streaks.Load(ctx)

	now := s.cal.Now()
	s.date, s.dayIndex = s.cal.DateKey(now), s.cal.DayIndex(now)

	if s.mode == domain.ModePractice {
		s.setGame(NewGame(s.mode, s.difficulty, selector.SelectPractice(pool, s.difficulty, s.rng)))
		return nil
	}
	if state, ok := s.gateway.Load(ctx, s.date); ok {
		s.difficulty = state.Difficulty
		words := selector.SelectDaily(pool, state.Difficulty, s.dayIndex)
		s.setGame(RestoreFinished(state, words))
		s.log.Debug().Int("score", state.Score).Msg("restored finished daily session")
		return nil
	}
	s.setGame(NewGame(s.mode, s.difficulty, selector.SelectDaily(pool, s.difficulty, s.dayIndex)))
	return nil
}

// setGame installs g and masks its definitions once for the prompt.
func (s *Session) setGame(g *Game) {
	s.game = g
	s.masked = s.masked[:0]
	for _, w := range g.Words() {
		s.masked = append(s.masked, MaskDefinition(w.Definition, w.Word))
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) DeviceID() string { return s.deviceID }

// Phase is Ready until Open has completed.
func (s *Session) Phase() domain.Phase {
	if s.game == nil {
		return domain.PhaseReady
	}
	return s.game.Phase()
}

// Start begins play and returns the intents the caller must honor (timer).
func (s *Session) Start(ctx context.Context) []Intent {
	if s.game == nil {
		return nil
	}
	return s.dispatch(ctx, s.game.Start())
}

// Tick forwards one second of the countdown identified by timer.
func (s *Session) Tick(ctx context.Context, timer uint64) []Intent {
	if s.game == nil {
		return nil
	}
	return s.dispatch(ctx, s.game.Tick(timer))
}

func (s *Session) Type(r rune) {
	if s.game != nil {
		s.game.AppendChar(r)
	}
}

func (s *Session) Backspace() {
	if s.game != nil {
		s.game.Backspace()
	}
}

// Submit grades the typed word, optionally replacing the buffer first.
func (s *Session) Submit(ctx context.Context, text *string) []Intent {
	if s.game == nil {
		return nil
	}
	if text != nil {
		s.game.SetInput(*text)
	}
	return s.dispatch(ctx, s.game.Submit())
}

// Replay re-sends the current word's pronunciation.
func (s *Session) Replay(ctx context.Context) []Intent {
	if s.game == nil {
		return nil
	}
	return s.dispatch(ctx, s.game.Replay())
}

// NewPracticeSession draws fresh random words after a practice game.
func (s *Session) NewPracticeSession() bool {
	if s.game == nil || s.mode != domain.ModePractice {
		return false
	}
	if !s.game.Reset(selector.SelectPractice(s.pool, s.difficulty, s.rng)) {
		return false
	}
	s.setGame(s.game)
	return true
}

// Share renders the result summary and offers it to the share sink. It is
// only available once the session is finished.
func (s *Session) Share(ctx context.Context) (ShareSummary, ShareOutcome, bool) {
	if s.game == nil || s.game.Phase() != domain.PhaseFinished {
		return ShareSummary{}, "", false
	}
	summary := BuildShare(s.game.Snapshot(), s.game.Words(), s.streaks.DisplayStreak(s.streak), s.dayIndex)
	outcome, err := s.share.OfferShare(ctx, summary.Text())
	if err != nil {
		s.log.Warn().Err(err).Msg("share failed, falling back to clipboard")
		outcome = ShareFallbackToClipboard
	}
	return summary, outcome, true
}

// Streak returns the device record and the streak to display.
func (s *Session) Streak() (domain.StreakRecord, int) {
	return s.streak, s.streaks.DisplayStreak(s.streak)
}

// Snapshot exposes the raw state machine state.
func (s *Session) Snapshot() domain.SessionState {
	if s.game == nil {
		return domain.SessionState{Phase: domain.PhaseReady, Mode: s.mode, Difficulty: s.difficulty}
	}
	return s.game.Snapshot()
}

// dispatch performs the side effects the core asked for and hands the rest
// (timer control) back to the caller.
func (s *Session) dispatch(ctx context.Context, intents []Intent) []Intent {
	for _, in := range intents {
		switch in.Kind {
		case IntentPlayWord:
			if err := s.audio.Play(ctx, in.AudioRef); err != nil {
				s.log.Warn().Err(err).Int("word", in.WordIndex).Msg("audio playback failed")
			}
		case IntentFinished:
			s.complete(ctx)
		}
	}
	return intents
}

// complete commits a finished daily game and counts it toward the streak.
func (s *Session) complete(ctx context.Context) {
	state := s.game.Snapshot()
	s.log.Info().
		Str("mode", string(state.Mode)).
		Int("score", state.Score).
		Int("correct", state.CorrectCount).
		Msg("session finished")
	if state.Mode != domain.ModeDaily {
		return
	}
	if err := s.gateway.Save(ctx, s.date, state); err != nil {
		s.log.Error().Err(err).Msg("persist daily session failed")
	}
	rec, err := s.streaks.RecordCompletion(ctx, FinalScore(state), s.date)
	if err != nil {
		s.log.Error().Err(err).Msg("record streak failed")
		return
	}
	s.streak = rec
}

// WordPrompt is what a player sees of the word being played.
type WordPrompt struct {
	Index      int    `json:"index"`
	Definition string `json:"definition"`
	AudioRef   string `json:"audioRef"`
	Length     int    `json:"length"`
}

// View is the client read model. Spellings are only revealed once finished.
type View struct {
	SessionID     string            `json:"sessionId"`
	DeviceID      string            `json:"deviceId"`
	Phase         domain.Phase      `json:"phase"`
	Mode          domain.Mode       `json:"mode"`
	Difficulty    domain.Difficulty `json:"difficulty"`
	Date          string            `json:"date"`
	DayIndex      int               `json:"dayIndex"`
	TimeRemaining int               `json:"timeRemaining"`
	Score         int               `json:"score"`
	CorrectCount  int               `json:"correctCount"`
	CurrentIndex  int               `json:"currentIndex"`
	WordCount     int               `json:"wordCount"`
	Input         string            `json:"input"`
	Attempts      []string          `json:"attempts"`
	Results       []bool            `json:"results"`
	Current       *WordPrompt       `json:"current,omitempty"`
	Words         []string          `json:"words,omitempty"`
	Streak        int               `json:"streak"`
}

// View builds the read model for the current state.
func (s *Session) View() View {
	state := s.Snapshot()
	v := View{
		SessionID:     s.id,
		DeviceID:      s.deviceID,
		Phase:         state.Phase,
		Mode:          state.Mode,
		Difficulty:    state.Difficulty,
		Date:          s.date,
		DayIndex:      s.dayIndex,
		TimeRemaining: state.TimeRemaining,
		Score:         state.Score,
		CorrectCount:  state.CorrectCount,
		CurrentIndex:  state.CurrentIndex,
		Input:         state.UserInput,
		Attempts:      state.Attempts,
		Streak:        s.streaks.DisplayStreak(s.streak),
	}
	if s.game == nil {
		return v
	}
	words := s.game.Words()
	v.WordCount = len(words)
	graded := gradeAttempts(state.Attempts, words)

	if state.Phase == domain.PhaseFinished {
		v.Results = graded
		for _, w := range words {
			v.Words = append(v.Words, w.Word)
		}
		return v
	}
	v.Results = graded[:state.CurrentIndex]
	if w, ok := s.game.Current(); ok && state.Phase == domain.PhasePlaying {
		v.Current = &WordPrompt{
			Index:      state.CurrentIndex,
			Definition: s.masked[state.CurrentIndex],
			AudioRef:   w.AudioRef,
			Length:     utf8.RuneCountInString(strings.TrimSpace(w.Word)),
		}
	}
	return v
}

// MaskDefinition hides every case-insensitive occurrence of word in def.
func MaskDefinition(def, word string) string {
	word = strings.TrimSpace(word)
	if word == "" {
		return def
	}
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(word))
	return re.ReplaceAllStringFunc(def, func(m string) string {
		return strings.Repeat("_", utf8.RuneCountInString(m))
	})
}
