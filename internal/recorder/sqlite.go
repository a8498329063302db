package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"

	_ "modernc.org/sqlite"

	"MarketBoard/internal/model"
)

// SQLiteRecorder mirrors snapshots and session resets into a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so ad-hoc readers don't block the poller's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS snapshots (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			price     REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_symbol ON snapshots(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS session_resets (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			day       TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			dropped   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_resets_day ON session_resets(day)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSnapshot inserts one row per captured price. Absent tickers simply
// produce no row for that tick.
func (r *SQLiteRecorder) RecordSnapshot(snap model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	ts := snap.Timestamp.Unix()
	for sym, price := range snap.Prices {
		if _, err := tx.Exec(
			`INSERT INTO snapshots (timestamp, symbol, price) VALUES (?,?,?)`,
			ts, sym, price,
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert snapshot %s: %w", sym, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) RecordReset(evt ResetEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(
		`INSERT INTO session_resets (day, timestamp, dropped) VALUES (?,?,?)`,
		evt.Day, evt.At.Unix(), evt.Dropped,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
