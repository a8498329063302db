// Package scheduler drives the polling session: a single re-arming timer
// whose every wake-up either resets for a new trading day, holds until the
// next market open, or fetches one snapshot and sleeps one refresh interval.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"MarketBoard/internal/model"
	"MarketBoard/internal/quote"
	"MarketBoard/internal/recorder"
	"MarketBoard/internal/session"
	"MarketBoard/internal/sink"
	"MarketBoard/internal/store"
)

const (
	// initialDelay before the first tick after startup.
	initialDelay = 250 * time.Millisecond
	// defaultSpacing between per-ticker quote calls within one tick, to be
	// gentle on provider rate limits without stalling the tick.
	defaultSpacing = 200 * time.Millisecond
)

// Scheduler owns the session state. All mutation happens on the tick path;
// sinks only ever receive copies.
type Scheduler struct {
	clock    *session.Clock
	source   quote.Source
	store    *store.CSVStore
	rec      recorder.Recorder
	sink     sink.Sink
	tickers  []string
	interval time.Duration
	spacing  time.Duration

	// nowFn exists so tests can drive ticks at arbitrary instants.
	nowFn func() time.Time

	day         time.Time
	series      model.SessionSeries
	windowOpen  time.Time
	windowClose time.Time
}

// New creates a Scheduler. interval is the refresh cadence inside the
// trading window.
func New(clk *session.Clock, src quote.Source, st *store.CSVStore, rec recorder.Recorder, snk sink.Sink, tickers []string, interval time.Duration) *Scheduler {
	return &Scheduler{
		clock:    clk,
		source:   src,
		store:    st,
		rec:      rec,
		sink:     snk,
		tickers:  tickers,
		interval: interval,
		spacing:  defaultSpacing,
		nowFn:    clk.Now,
		series:   model.NewSessionSeries(),
	}
}

// Bootstrap binds the session to now's date and reloads any snapshots
// already flushed for it, so a restart mid-session resumes where it left
// off. Load failures start an empty session, never a crash.
func (s *Scheduler) Bootstrap(now time.Time) {
	now = now.In(s.clock.Location())
	s.day = now
	s.windowOpen, s.windowClose = s.clock.TodaysWindow(now)

	snaps, err := s.store.Load(now)
	if err != nil {
		log.Printf("[WARN] load session %s: %v; starting empty", s.clock.DateKey(now), err)
		return
	}
	s.series.Snapshots = snaps
	if len(snaps) > 0 {
		log.Printf("[INFO] resumed session %s with %d prior snapshots", s.clock.DateKey(now), len(snaps))
	}
}

// Run executes the tick loop until ctx is cancelled. The only error it
// returns is calendar range exhaustion.
func (s *Scheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(initialDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[INFO] scheduler stopped")
			return nil
		case <-timer.C:
			next, err := s.tick(ctx, s.nowFn())
			if err != nil {
				return fmt.Errorf("scheduler: %w", err)
			}
			delay := next.Sub(s.nowFn())
			if delay < time.Millisecond {
				delay = time.Millisecond
			}
			log.Printf("[INFO] next tick at %s (in %s)", next.Format(time.RFC3339), delay.Round(time.Second))
			timer.Reset(delay)
		}
	}
}

// tick runs one decision-and-action cycle and returns the next wake instant.
// It always schedules exactly one future tick unless the calendar range is
// exhausted.
func (s *Scheduler) tick(ctx context.Context, now time.Time) (time.Time, error) {
	now = now.In(s.clock.Location())

	dec, err := Decide(s.clock, s.day, now)
	if err != nil {
		return time.Time{}, err
	}
	if dec.Reset {
		s.resetSession(now)
	}

	if dec.Action == ActionHold {
		s.publish(now, dec.Status)
		return dec.WakeAt, nil
	}

	snap := s.fetch(ctx, now)
	s.series.Append(snap)
	if err := s.store.Append(snap); err != nil {
		log.Printf("[ERROR] persist snapshot: %v", err)
	}
	if err := s.rec.RecordSnapshot(snap); err != nil {
		log.Printf("[ERROR] record snapshot: %v", err)
	}
	s.publish(now, StatusOpen)

	return s.nowFn().In(s.clock.Location()).Add(s.interval), nil
}

// fetch queries every ticker once. Failures and rate limits yield an absent
// price for this tick only; a reported previous close always wins, even when
// the current price was missing.
func (s *Scheduler) fetch(ctx context.Context, now time.Time) model.Snapshot {
	snap := model.Snapshot{
		Timestamp: now,
		Prices:    make(map[string]float64, len(s.tickers)),
	}
	for i, sym := range s.tickers {
		q, err := s.source.Quote(ctx, sym)
		switch {
		case errors.Is(err, quote.ErrRateLimited):
			log.Printf("[WARN] rate limited for %s", sym)
		case err != nil:
			log.Printf("[WARN] quote error %s: %v", sym, err)
		default:
			if q.PrevClose != nil {
				s.series.PrevClose[sym] = *q.PrevClose
			}
			if q.Current != nil {
				snap.Prices[sym] = *q.Current
			}
		}
		if s.spacing > 0 && i < len(s.tickers)-1 {
			select {
			case <-ctx.Done():
				return snap
			case <-time.After(s.spacing):
			}
		}
	}
	return snap
}

// resetSession clears the series for a new trading day. Previous-close
// values survive; durable records of prior days are untouched.
func (s *Scheduler) resetSession(now time.Time) {
	dropped := s.series.Len()
	s.series.Reset()
	s.day = now
	s.windowOpen, s.windowClose = s.clock.TodaysWindow(now)

	key := s.clock.DateKey(now)
	if err := s.rec.RecordReset(recorder.ResetEvent{Day: key, At: now, Dropped: dropped}); err != nil {
		log.Printf("[ERROR] record session reset: %v", err)
	}
	log.Printf("[INFO] new trading session %s: cleared %d snapshots", key, dropped)
}

// publish hands a copied view of the session to the sinks.
func (s *Scheduler) publish(now time.Time, status string) {
	view := model.SessionView{
		Date:        s.clock.DateKey(s.day),
		WindowOpen:  s.windowOpen,
		WindowClose: s.windowClose,
		Status:      status,
		UpdatedAt:   now,
		PrevClose:   make(map[string]float64, len(s.series.PrevClose)),
	}
	view.Snapshots = append([]model.Snapshot(nil), s.series.Snapshots...)
	for sym, pc := range s.series.PrevClose {
		view.PrevClose[sym] = pc
	}

	if last, ok := s.series.Latest(); ok {
		view.Changes = make(map[string]model.Change, len(last.Prices))
		for sym, cur := range last.Prices {
			pc, ok := s.series.PrevClose[sym]
			if !ok || pc == 0 {
				continue
			}
			diff := cur - pc
			view.Changes[sym] = model.Change{Last: cur, Diff: diff, Percent: diff / pc * 100}
		}
	}

	s.sink.Publish(view)
}
