package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"MarketBoard/internal/model"
)

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	defer r.Close()

	snap := model.Snapshot{
		Timestamp: time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC),
		Prices:    map[string]float64{"SPY": 560.12, "QQQ": 480.3},
	}
	if err := r.RecordSnapshot(snap); err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}
	if err := r.RecordReset(ResetEvent{Day: "2025-03-10", At: snap.Timestamp, Dropped: 3}); err != nil {
		t.Fatalf("RecordReset: %v", err)
	}

	var rows int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&rows); err != nil {
		t.Fatal(err)
	}
	if rows != 2 {
		t.Errorf("snapshots rows = %d, want 2 (one per captured price)", rows)
	}

	var price float64
	if err := r.db.QueryRow(
		`SELECT price FROM snapshots WHERE symbol = ?`, "SPY",
	).Scan(&price); err != nil {
		t.Fatal(err)
	}
	if price != 560.12 {
		t.Errorf("SPY price = %v, want 560.12", price)
	}

	var dropped int
	if err := r.db.QueryRow(
		`SELECT dropped FROM session_resets WHERE day = ?`, "2025-03-10",
	).Scan(&dropped); err != nil {
		t.Fatal(err)
	}
	if dropped != 3 {
		t.Errorf("dropped = %d, want 3", dropped)
	}
}
