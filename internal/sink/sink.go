// Package sink delivers the session view to presentation surfaces. Sinks
// receive an immutable copy after each scheduler tick; they never touch the
// scheduler's live state.
package sink

import (
	"log"

	"MarketBoard/internal/model"
)

// Sink receives the session view after each tick.
type Sink interface {
	Publish(view model.SessionView)
}

// LogSink writes a one-line summary of each published view to the log.
type LogSink struct{}

func NewLogSink() *LogSink { return &LogSink{} }

func (l *LogSink) Publish(view model.SessionView) {
	if view.Status != "" {
		log.Printf("[INFO] session %s: %d snapshots, status: %s", view.Date, len(view.Snapshots), view.Status)
		return
	}
	last := "no data yet"
	if n := len(view.Snapshots); n > 0 {
		last = view.Snapshots[n-1].Timestamp.Format("15:04:05")
	}
	log.Printf("[INFO] session %s: %d snapshots, last tick %s", view.Date, len(view.Snapshots), last)
}

// MultiSink fans a view out to several sinks in order.
type MultiSink []Sink

func (m MultiSink) Publish(view model.SessionView) {
	for _, s := range m {
		s.Publish(view)
	}
}
