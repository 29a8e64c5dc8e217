package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"spellingb/internal/calendar"
	"spellingb/internal/domain"
)

// SessionKey holds the finished daily snapshot within a device scope.
const SessionKey = "daily:session"

// storedSession is the on-disk shape of the daily snapshot.
type storedSession struct {
	Date  string              `json:"date"`
	State domain.SessionState `json:"state"`
}

// Gateway persists the finished daily session, one per calendar day of record.
type Gateway struct {
	store KeyValueStore
	log   zerolog.Logger
}

func NewGateway(store KeyValueStore, log zerolog.Logger) *Gateway {
	return &Gateway{store: store, log: log}
}

// Save writes a finished daily snapshot under the day it was played. Practice
// sessions and unfinished games are never persisted.
func (g *Gateway) Save(ctx context.Context, date string, state domain.SessionState) error {
	if state.Mode != domain.ModeDaily || state.Phase != domain.PhaseFinished {
		return nil
	}
	raw, err := json.Marshal(storedSession{Date: date, State: state})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := g.store.Set(ctx, SessionKey, string(raw)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the finished snapshot for date. Entries from another day and
// unreadable ones are removed and reported as absent.
func (g *Gateway) Load(ctx context.Context, date string) (domain.SessionState, bool) {
	raw, ok, err := g.store.Get(ctx, SessionKey)
	if err != nil {
		g.log.Warn().Err(err).Msg("read daily session failed, starting fresh")
		return domain.SessionState{}, false
	}
	if !ok {
		return domain.SessionState{}, false
	}

	var stored storedSession
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || !validSnapshot(stored) {
		g.log.Warn().Err(err).Msg("discarding corrupt daily session")
		g.remove(ctx)
		return domain.SessionState{}, false
	}
	if stored.Date != date {
		g.log.Debug().Str("date", stored.Date).Msg("discarding stale daily session")
		g.remove(ctx)
		return domain.SessionState{}, false
	}
	return stored.State, true
}

func (g *Gateway) remove(ctx context.Context) {
	if err := g.store.Remove(ctx, SessionKey); err != nil {
		g.log.Warn().Err(err).Msg("remove daily session failed")
	}
}

func validSnapshot(s storedSession) bool {
	st := s.State
	return calendar.ValidDateKey(s.Date) &&
		st.Mode == domain.ModeDaily &&
		st.Phase != "" &&
		st.Difficulty.Valid() &&
		st.Score >= 0 &&
		st.CorrectCount >= 0 &&
		st.CurrentIndex >= 0 &&
		st.TimeRemaining >= 0
}
