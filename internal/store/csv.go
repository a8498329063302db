// Package store persists one trading session per calendar date as an
// append-only CSV record: <root>/YYYY-MM-DD/prices.csv with a header row of
// "ts" plus one column per configured ticker. Blank cells mark failed
// fetches. Records are never rewritten, so a process restart mid-session can
// reload everything already flushed.
package store

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"MarketBoard/internal/model"
)

// CSVStore writes and reloads per-date session records.
type CSVStore struct {
	root    string
	tickers []string
	loc     *time.Location
}

// NewCSVStore creates a store rooted at root for the given ticker columns.
func NewCSVStore(root string, tickers []string, loc *time.Location) *CSVStore {
	return &CSVStore{root: root, tickers: tickers, loc: loc}
}

// DayDir returns the directory holding the record for day's calendar date.
func (s *CSVStore) DayDir(day time.Time) string {
	return filepath.Join(s.root, day.In(s.loc).Format("2006-01-02"))
}

func (s *CSVStore) dayPath(day time.Time) string {
	return filepath.Join(s.DayDir(day), "prices.csv")
}

// Root returns the storage root directory.
func (s *CSVStore) Root() string { return s.root }

// Load reconstructs the snapshots recorded for day's date. A missing record
// yields an empty series; malformed rows are logged and skipped so a damaged
// file never prevents startup.
func (s *CSVStore) Load(day time.Time) ([]model.Snapshot, error) {
	path := s.dayPath(day)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open session record: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read session record %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	if len(header) < 2 || header[0] != "ts" {
		return nil, fmt.Errorf("session record %s: unexpected header %v", path, header)
	}
	symbols := header[1:]

	var snaps []model.Snapshot
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			log.Printf("[WARN] %s row %d: %d fields, want %d; skipping", path, i+2, len(row), len(header))
			continue
		}
		ts, err := time.Parse(time.RFC3339Nano, row[0])
		if err != nil {
			log.Printf("[WARN] %s row %d: bad timestamp %q; skipping", path, i+2, row[0])
			continue
		}
		snap := model.Snapshot{Timestamp: ts.In(s.loc), Prices: make(map[string]float64, len(symbols))}
		for j, sym := range symbols {
			cell := row[j+1]
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				log.Printf("[WARN] %s row %d: bad price %q for %s; treated as absent", path, i+2, cell, sym)
				continue
			}
			snap.Prices[sym] = v
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

// Append durably records one snapshot under its own date. The file is opened
// in append mode; a header row is written first when the record is new.
func (s *CSVStore) Append(snap model.Snapshot) error {
	dir := s.DayDir(snap.Timestamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	path := s.dayPath(snap.Timestamp)

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open session record: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if isNew {
		if err := w.Write(append([]string{"ts"}, s.tickers...)); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	row := make([]string, 0, len(s.tickers)+1)
	row = append(row, snap.Timestamp.In(s.loc).Format(time.RFC3339Nano))
	for _, t := range s.tickers {
		if v, ok := snap.Prices[t]; ok {
			row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
		} else {
			row = append(row, "")
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write snapshot row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush snapshot row: %w", err)
	}
	return nil
}

// PruneBefore removes per-date record directories older than cutoff. It
// returns how many were removed; unreadable entries are logged and left.
func (s *CSVStore) PruneBefore(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read storage root: %w", err)
	}
	removed := 0
	cutoffKey := cutoff.In(s.loc).Format("2006-01-02")
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := time.Parse("2006-01-02", e.Name()); err != nil {
			continue // not a per-date record directory
		}
		if e.Name() >= cutoffKey {
			continue
		}
		if err := os.RemoveAll(filepath.Join(s.root, e.Name())); err != nil {
			log.Printf("[WARN] prune %s: %v", e.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
