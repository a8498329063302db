package scheduler

import (
	"fmt"
	"time"

	"MarketBoard/internal/calendar"
	"MarketBoard/internal/session"
)

// Action is what a tick should do after any pending reset.
type Action int

const (
	// ActionHold keeps the last session on screen and sleeps until the
	// next market open.
	ActionHold Action = iota
	// ActionFetch polls the quote source and appends a snapshot.
	ActionFetch
)

// Status strings handed to presentation sinks.
const (
	StatusOpen            = ""
	StatusClosedHoliday   = "closed for holiday/weekend"
	StatusClosedUntilNext = "closed until next session"
)

// Decision is the outcome of one wake-up evaluation. It is computed without
// side effects so the transition logic is testable against any instant.
type Decision struct {
	// Reset means the calendar rolled into a new market day at/after open:
	// clear the series and rebind the session to now's date before acting.
	Reset  bool
	Action Action
	Status string
	// WakeAt is the next tick instant when Action is ActionHold. For
	// ActionFetch the next tick is interval-relative to tick completion
	// and is computed by the caller.
	WakeAt time.Time
}

// Decide evaluates the session state machine for one wake-up. sessionDay is
// the date the current series belongs to. The only error is calendar range
// exhaustion.
func Decide(clk *session.Clock, sessionDay, now time.Time) (Decision, error) {
	now = now.In(clk.Location())
	marketDay, err := calendar.IsMarketDay(now)
	if err != nil {
		return Decision{}, fmt.Errorf("decide: %w", err)
	}
	open, close := clk.TodaysWindow(now)

	var d Decision
	// Day rollover: a new market day at/after open starts a fresh session.
	// Evaluated first so the same tick proceeds into fetch or hold.
	if !clk.SameDate(sessionDay, now) && marketDay && !now.Before(open) {
		d.Reset = true
	}

	if !marketDay {
		wake, err := clk.NextMarketOpenAfter(now)
		if err != nil {
			return Decision{}, fmt.Errorf("decide: %w", err)
		}
		d.Action = ActionHold
		d.Status = StatusClosedHoliday
		d.WakeAt = wake
		return d, nil
	}

	if now.Before(open) || now.After(close) {
		wake, err := clk.NextMarketOpenAfter(now)
		if err != nil {
			return Decision{}, fmt.Errorf("decide: %w", err)
		}
		d.Action = ActionHold
		d.Status = StatusClosedUntilNext
		d.WakeAt = wake
		return d, nil
	}

	d.Action = ActionFetch
	d.Status = StatusOpen
	return d, nil
}
