package model

import "time"

// Snapshot is one polling tick's set of per-ticker prices. A ticker missing
// from Prices means its fetch failed or was rate-limited on that tick.
type Snapshot struct {
	Timestamp time.Time          `json:"ts"`
	Prices    map[string]float64 `json:"prices"`
}

// Price returns the price for symbol and whether it was captured.
func (s Snapshot) Price(symbol string) (float64, bool) {
	v, ok := s.Prices[symbol]
	return v, ok
}

// SessionSeries is the ordered sequence of snapshots for the current trading
// day plus the per-ticker previous-close reference. Snapshots are append-only
// within a session; PrevClose survives session resets and is only ever
// overwritten by a fresher value from the quote source.
type SessionSeries struct {
	Snapshots []Snapshot         `json:"snapshots"`
	PrevClose map[string]float64 `json:"prev_close"`
}

// NewSessionSeries returns an empty series with an initialized PrevClose map.
func NewSessionSeries() SessionSeries {
	return SessionSeries{PrevClose: make(map[string]float64)}
}

// Append adds one snapshot to the in-memory series.
func (s *SessionSeries) Append(snap Snapshot) {
	s.Snapshots = append(s.Snapshots, snap)
}

// Reset clears the snapshots for a new trading day. PrevClose is kept.
func (s *SessionSeries) Reset() {
	s.Snapshots = nil
}

// Len returns the number of snapshots in the series.
func (s *SessionSeries) Len() int { return len(s.Snapshots) }

// Latest returns the most recent snapshot, if any.
func (s *SessionSeries) Latest() (Snapshot, bool) {
	if len(s.Snapshots) == 0 {
		return Snapshot{}, false
	}
	return s.Snapshots[len(s.Snapshots)-1], true
}

// Quote is a single provider response for one symbol. Nil fields mean the
// provider had no value (failure, rate limit, or unknown symbol).
type Quote struct {
	Current   *float64
	PrevClose *float64
}

// Change summarizes a ticker's move versus its previous close.
type Change struct {
	Last    float64 `json:"last"`
	Diff    float64 `json:"diff"`
	Percent float64 `json:"percent"`
}

// SessionView is the read-only copy handed to presentation sinks after each
// tick. Sinks never see the scheduler's live state.
type SessionView struct {
	Date        string             `json:"date"`
	WindowOpen  time.Time          `json:"window_open"`
	WindowClose time.Time          `json:"window_close"`
	Snapshots   []Snapshot         `json:"snapshots"`
	PrevClose   map[string]float64 `json:"prev_close"`
	Changes     map[string]Change  `json:"changes"`
	Status      string             `json:"status"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
