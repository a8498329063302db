package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"MarketBoard/internal/store"
)

// Maintenance runs calendar-fixed housekeeping jobs, currently pruning
// per-date session records older than the retention horizon.
type Maintenance struct {
	cron     *cron.Cron
	store    *store.CSVStore
	keepDays int
	loc      *time.Location
}

// NewMaintenance registers the prune job on the given 6-field cron spec
// (e.g. "0 30 2 * * *" for 02:30 daily), evaluated in the trading zone.
func NewMaintenance(st *store.CSVStore, keepDays int, spec string, loc *time.Location) (*Maintenance, error) {
	m := &Maintenance{
		cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		store:    st,
		keepDays: keepDays,
		loc:      loc,
	}
	if _, err := m.cron.AddFunc(spec, m.prune); err != nil {
		return nil, fmt.Errorf("register prune job: %w", err)
	}
	return m, nil
}

// Start begins running the maintenance jobs.
func (m *Maintenance) Start() {
	m.cron.Start()
	log.Printf("[INFO] maintenance started, keeping %d days of records", m.keepDays)
}

// Stop stops the maintenance jobs gracefully.
func (m *Maintenance) Stop() {
	m.cron.Stop()
	log.Println("[INFO] maintenance stopped")
}

func (m *Maintenance) prune() {
	cutoff := time.Now().In(m.loc).AddDate(0, 0, -m.keepDays)
	removed, err := m.store.PruneBefore(cutoff)
	if err != nil {
		log.Printf("[ERROR] prune session records: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[INFO] pruned %d session record dirs older than %s", removed, cutoff.Format("2006-01-02"))
	}
}
