// Package sequence issues the human-readable purchase ids: DDMMYY plus a
// zero-padded 3-digit number that restarts at 001 every calendar day.
package sequence

import (
	"fmt"
	"time"

	"kasir-pos/internal/models"
	"kasir-pos/internal/store"
)

type Generator struct {
	store store.Store
}

func New(s store.Store) *Generator {
	return &Generator{store: s}
}

// Next computes the next purchase id for the given instant and returns the
// advanced counter document. The counter is NOT persisted here: the caller
// stages it into the same batch as the sale, so the id and the sale land
// (or fail) together. Callers must hold the ledger lock.
//
// When the counter document is missing, the day's report transaction count
// is used as the prior sequence (older data predates counters). When that
// is unreadable too, the day starts at 1 - availability over strict
// accuracy, a deliberate and documented trade-off.
func (g *Generator) Next(now time.Time) (string, models.DayCounter, error) {
	date := now.Format("2006-01-02")

	var counter models.DayCounter
	err := g.store.Read(store.DayCounterKey(date), &counter)
	switch err {
	case nil:
	case store.ErrNotFound:
		counter = models.DayCounter{
			SchemaVersion: models.CurrentSchemaVersion,
			Date:          date,
			LastSeq:       g.priorFromDailyReport(date),
		}
	default:
		counter = models.DayCounter{SchemaVersion: models.CurrentSchemaVersion, Date: date}
	}

	counter.SchemaVersion = models.CurrentSchemaVersion
	counter.LastSeq++
	id := fmt.Sprintf("%s%03d", now.Format("020106"), counter.LastSeq)
	return id, counter, nil
}

func (g *Generator) priorFromDailyReport(date string) int {
	var report models.DailyReport
	if err := g.store.Read(store.DailyReportKey(date), &report); err != nil {
		return 0
	}
	return len(report.Transactions)
}
