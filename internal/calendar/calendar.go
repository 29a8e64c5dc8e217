// Package calendar is the single source of "what day is it" for word
// selection, replay lockout and streaks. All three must agree, so they all
// resolve dates in one timezone of record rather than the caller's zone.
package calendar

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const (
	// DateLayout is the YYYY-MM-DD day key format.
	DateLayout = "2006-01-02"

	DefaultTimezone = "America/New_York"
	DefaultEpoch    = "2024-01-01"
)

// Calendar maps instants to civil days in the timezone of record.
type Calendar struct {
	loc   *time.Location
	epoch time.Time
	now   func() time.Time
}

// New builds a Calendar. Empty timezone/epoch fall back to the defaults and a
// nil clock means time.Now.
func New(timezone, epoch string, now func() time.Time) (*Calendar, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	if epoch == "" {
		epoch = DefaultEpoch
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	start, err := time.Parse(DateLayout, epoch)
	if err != nil {
		return nil, fmt.Errorf("parse epoch %q: %w", epoch, err)
	}
	if now == nil {
		now = time.Now
	}
	return &Calendar{loc: loc, epoch: start, now: now}, nil
}

// MustNew is New for tests and hard-coded setups.
func MustNew(timezone, epoch string, now func() time.Time) *Calendar {
	c, err := New(timezone, epoch, now)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Calendar) Location() *time.Location { return c.loc }

func (c *Calendar) Now() time.Time { return c.now() }

// DateKey returns the YYYY-MM-DD of t in the timezone of record.
func (c *Calendar) DateKey(t time.Time) string {
	return t.In(c.loc).Format(DateLayout)
}

// DayIndex counts whole civil days from the epoch to t's day. Days before the
// epoch are negative.
func (c *Calendar) DayIndex(t time.Time) int {
	return daysBetween(c.epoch, civilMidnight(t.In(c.loc)))
}

func (c *Calendar) Today() string { return c.DateKey(c.now()) }

func (c *Calendar) TodayIndex() int { return c.DayIndex(c.now()) }

// Yesterday returns the day key before Today.
func (c *Calendar) Yesterday() string {
	today := civilMidnight(c.now().In(c.loc))
	return today.AddDate(0, 0, -1).Format(DateLayout)
}

// DaysBetween returns to minus from in civil days for two day keys.
func DaysBetween(from, to string) (int, error) {
	a, err := time.Parse(DateLayout, from)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", from, err)
	}
	b, err := time.Parse(DateLayout, to)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", to, err)
	}
	return daysBetween(a, b), nil
}

// ValidDateKey reports whether s is a well-formed YYYY-MM-DD key.
func ValidDateKey(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// civilMidnight re-anchors t's calendar date at UTC midnight so day
// arithmetic never sees a 23 or 25 hour DST day.
func civilMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
