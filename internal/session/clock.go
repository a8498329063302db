// Package session holds trading-window time math: whether "now" is inside
// today's window and when the next market open occurs. All computation is
// pinned to the configured trading time zone, never the host zone.
package session

import (
	"fmt"
	"time"

	"MarketBoard/internal/calendar"
)

// Clock computes trading-window facts for a fixed zone and open/close times.
type Clock struct {
	loc                 *time.Location
	openHour, openMin   int
	closeHour, closeMin int
}

// NewClock builds a Clock. open and close are wall-clock times like "08:30".
func NewClock(loc *time.Location, open, close string) (*Clock, error) {
	oh, om, err := parseWallClock(open)
	if err != nil {
		return nil, fmt.Errorf("parse open time: %w", err)
	}
	ch, cm, err := parseWallClock(close)
	if err != nil {
		return nil, fmt.Errorf("parse close time: %w", err)
	}
	if oh*60+om >= ch*60+cm {
		return nil, fmt.Errorf("open %s is not before close %s", open, close)
	}
	return &Clock{loc: loc, openHour: oh, openMin: om, closeHour: ch, closeMin: cm}, nil
}

func parseWallClock(s string) (hour, min int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%q: %w", s, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Now returns the current instant in the trading zone.
func (c *Clock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location returns the trading zone.
func (c *Clock) Location() *time.Location { return c.loc }

// TodaysWindow returns today's open and close instants for now's calendar
// date, regardless of whether today is a market day. Used for display
// clamping as much as for the window check.
func (c *Clock) TodaysWindow(now time.Time) (open, close time.Time) {
	now = now.In(c.loc)
	y, m, d := now.Date()
	open = time.Date(y, m, d, c.openHour, c.openMin, 0, 0, c.loc)
	close = time.Date(y, m, d, c.closeHour, c.closeMin, 0, 0, c.loc)
	return open, close
}

// IsWithinWindow reports whether now falls inside today's trading window:
// a market day with open <= now <= close, both bounds inclusive.
func (c *Clock) IsWithinWindow(now time.Time) (bool, error) {
	now = now.In(c.loc)
	marketDay, err := calendar.IsMarketDay(now)
	if err != nil {
		return false, err
	}
	if !marketDay {
		return false, nil
	}
	open, close := c.TodaysWindow(now)
	return !now.Before(open) && !now.After(close), nil
}

// NextMarketOpenAfter returns the earliest market-day open strictly after
// now, scanning forward one day at a time. It fails once the scan leaves the
// calendar's supported range rather than guessing.
func (c *Clock) NextMarketOpenAfter(now time.Time) (time.Time, error) {
	now = now.In(c.loc)
	day := now
	for {
		marketDay, err := calendar.IsMarketDay(day)
		if err != nil {
			return time.Time{}, fmt.Errorf("next market open after %s: %w", now.Format(time.RFC3339), err)
		}
		if marketDay {
			y, m, d := day.Date()
			open := time.Date(y, m, d, c.openHour, c.openMin, 0, 0, c.loc)
			if open.After(now) {
				return open, nil
			}
		}
		day = day.AddDate(0, 0, 1)
	}
}

// SameDate reports whether a and b fall on the same calendar date in the
// trading zone.
func (c *Clock) SameDate(a, b time.Time) bool {
	ay, am, ad := a.In(c.loc).Date()
	by, bm, bd := b.In(c.loc).Date()
	return ay == by && am == bm && ad == bd
}

// DateKey formats t's calendar date in the trading zone, the key used for
// durable per-day records.
func (c *Clock) DateKey(t time.Time) string {
	return t.In(c.loc).Format("2006-01-02")
}
