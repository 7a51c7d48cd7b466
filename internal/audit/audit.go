// Package audit keeps the append-only action log ("who did what when").
// The log is non-critical by policy: a failed append is reported to the
// logger and never surfaced to the caller, and it never rolls back a
// committed sale.
package audit

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"kasir-pos/internal/errs"
	"kasir-pos/internal/models"
	"kasir-pos/internal/store"
)

type Log struct {
	mu     sync.Mutex
	store  store.Store
	logger *logrus.Logger
	clock  func() time.Time
}

func New(s store.Store, logger *logrus.Logger, clock func() time.Time) *Log {
	if clock == nil {
		clock = time.Now
	}
	return &Log{store: s, logger: logger, clock: clock}
}

// Record appends an entry. Failures are swallowed here on purpose; the
// mutex keeps concurrent writers from losing each other's appends.
func (l *Log) Record(user, action string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	log, err := l.load()
	if err != nil {
		l.logger.WithFields(logrus.Fields{"user": user, "action": action}).
			WithError(err).Error("audit: failed to load action log")
		return
	}
	log.Entries = append(log.Entries, models.LogEntry{
		Timestamp: l.clock(),
		User:      user,
		Action:    action,
	})
	log.SchemaVersion = models.CurrentSchemaVersion
	if err := l.store.Write(store.KeyLogs, log); err != nil {
		l.logger.WithFields(logrus.Fields{"user": user, "action": action}).
			WithError(err).Error("audit: failed to append action log")
	}
}

// Entries returns the log in append order.
func (l *Log) Entries() ([]models.LogEntry, error) {
	log, err := l.load()
	if err != nil {
		return nil, &errs.StorageError{Key: store.KeyLogs, Err: err}
	}
	return log.Entries, nil
}

func (l *Log) load() (models.ActionLog, error) {
	var log models.ActionLog
	err := l.store.Read(store.KeyLogs, &log)
	if err == store.ErrNotFound {
		return models.ActionLog{SchemaVersion: models.CurrentSchemaVersion, Entries: []models.LogEntry{}}, nil
	}
	return log, err
}
