package recorder

import (
	"time"

	"MarketBoard/internal/model"
)

// ResetEvent records a session rollover: the in-memory series was cleared
// for a new trading day.
type ResetEvent struct {
	Day     string // new session date, YYYY-MM-DD
	At      time.Time
	Dropped int // snapshots discarded from memory by the reset
}

// Recorder mirrors session activity into long-term storage for later
// analysis. It is an optional layer beside the per-day CSV records; failures
// here must never stall the scheduler.
type Recorder interface {
	RecordSnapshot(snap model.Snapshot) error
	RecordReset(evt ResetEvent) error
	Close() error
}
