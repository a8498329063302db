package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketBoard/internal/model"
)

var testTickers = []string{"SPY", "DIA", "QQQ"}

func newTestStore(t *testing.T) *CSVStore {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	return NewCSVStore(t.TempDir(), testTickers, loc)
}

func snapAt(s *CSVStore, hour, min int, prices map[string]float64) model.Snapshot {
	return model.Snapshot{
		Timestamp: time.Date(2025, 3, 10, hour, min, 0, 0, s.loc),
		Prices:    prices,
	}
}

func TestAppendLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := []model.Snapshot{
		snapAt(s, 8, 30, map[string]float64{"SPY": 560.12, "DIA": 412.5, "QQQ": 480.01}),
		snapAt(s, 8, 35, map[string]float64{"SPY": 560.4, "QQQ": 480.3}), // DIA fetch failed
		snapAt(s, 8, 40, map[string]float64{"DIA": 413.0}),
	}
	for _, snap := range want {
		if err := s.Append(snap); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := s.Load(want[0].Timestamp)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d snapshots, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Timestamp.Equal(want[i].Timestamp) {
			t.Errorf("snapshot %d ts = %s, want %s", i, got[i].Timestamp, want[i].Timestamp)
		}
		if len(got[i].Prices) != len(want[i].Prices) {
			t.Errorf("snapshot %d has %d prices, want %d", i, len(got[i].Prices), len(want[i].Prices))
		}
		for sym, v := range want[i].Prices {
			if gv, ok := got[i].Prices[sym]; !ok || gv != v {
				t.Errorf("snapshot %d %s = %v (present=%v), want %v", i, sym, gv, ok, v)
			}
		}
	}
	if _, ok := got[1].Prices["DIA"]; ok {
		t.Error("absent DIA price resurfaced after reload")
	}
}

func TestAppendKeepsSubsecondPrecision(t *testing.T) {
	s := newTestStore(t)
	// Live snapshots carry time.Now()'s nanoseconds; the reload must be exact.
	ts := time.Date(2025, 3, 10, 8, 30, 0, 123456789, s.loc)
	if err := s.Append(model.Snapshot{Timestamp: ts, Prices: map[string]float64{"SPY": 560.12}}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	got, err := s.Load(ts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d snapshots, want 1", len(got))
	}
	if !got[0].Timestamp.Equal(ts) {
		t.Errorf("reloaded ts = %s, want %s", got[0].Timestamp.Format(time.RFC3339Nano), ts.Format(time.RFC3339Nano))
	}
}

func TestLoadMissingRecord(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Load(time.Date(2025, 3, 10, 9, 0, 0, 0, s.loc))
	if err != nil {
		t.Fatalf("Load of missing record: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty series, got %d snapshots", len(got))
	}
}

func TestLoadSkipsMalformedRows(t *testing.T) {
	s := newTestStore(t)
	day := time.Date(2025, 3, 10, 8, 30, 0, 0, s.loc)
	if err := s.Append(snapAt(s, 8, 30, map[string]float64{"SPY": 560})); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(s.DayDir(day), "prices.csv")
	junk := "not-a-timestamp,1,2,3\n2025-03-10T08:40:00-05:00,oops,412.5,480\n"
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString(junk); err != nil {
		t.Fatal(err)
	}
	f.Close()

	got, err := s.Load(day)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// Bad timestamp row dropped; bad price cell dropped but the row survives.
	if len(got) != 2 {
		t.Fatalf("loaded %d snapshots, want 2", len(got))
	}
	if _, ok := got[1].Prices["SPY"]; ok {
		t.Error("unparseable SPY cell should be absent")
	}
	if got[1].Prices["DIA"] != 412.5 {
		t.Errorf("DIA = %v, want 412.5", got[1].Prices["DIA"])
	}
}

func TestAppendSurvivesReopen(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append(snapAt(s, 8, 30, map[string]float64{"SPY": 560})); err != nil {
		t.Fatal(err)
	}

	// A fresh store over the same root sees the flushed row and keeps
	// appending to the same record without rewriting the header.
	s2 := NewCSVStore(s.root, testTickers, s.loc)
	if err := s2.Append(snapAt(s, 8, 35, map[string]float64{"SPY": 561})); err != nil {
		t.Fatal(err)
	}
	got, err := s2.Load(time.Date(2025, 3, 10, 0, 0, 0, 0, s.loc))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d snapshots after restart, want 2", len(got))
	}
}

func TestPruneBefore(t *testing.T) {
	s := newTestStore(t)
	for _, day := range []time.Time{
		time.Date(2025, 3, 6, 9, 0, 0, 0, s.loc),
		time.Date(2025, 3, 7, 9, 0, 0, 0, s.loc),
		time.Date(2025, 3, 10, 9, 0, 0, 0, s.loc),
	} {
		if err := s.Append(model.Snapshot{Timestamp: day, Prices: map[string]float64{"SPY": 1}}); err != nil {
			t.Fatal(err)
		}
	}
	// A stray non-record directory must be ignored.
	if err := os.Mkdir(filepath.Join(s.root, "scratch"), 0o755); err != nil {
		t.Fatal(err)
	}

	removed, err := s.PruneBefore(time.Date(2025, 3, 10, 0, 0, 0, 0, s.loc))
	if err != nil {
		t.Fatalf("PruneBefore: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed %d record dirs, want 2", removed)
	}
	if _, err := os.Stat(s.DayDir(time.Date(2025, 3, 10, 0, 0, 0, 0, s.loc))); err != nil {
		t.Errorf("cutoff day record should remain: %v", err)
	}
	if _, err := os.Stat(filepath.Join(s.root, "scratch")); err != nil {
		t.Errorf("non-record directory should remain: %v", err)
	}
}
