// Package store is the document layer: every piece of persisted state is a
// key-addressed JSON document. Keys are logical names ("items", "logs",
// "sales-2024-05", "reports/daily/2024-05-20"); the file implementation maps
// them onto a data directory, the memory implementation backs tests.
package store

import "errors"

// ErrNotFound is returned when no document exists under a key. Callers
// decide the default: most collections start empty.
var ErrNotFound = errors.New("document not found")

// Store is the persistence boundary. Read/Write move typed documents;
// ReadRaw/WriteRaw/Delete exist so a Batch can snapshot and restore
// documents without knowing their shape.
type Store interface {
	Read(key string, out any) error
	Write(key string, v any) error

	ReadRaw(key string) ([]byte, error)
	WriteRaw(key string, data []byte) error
	Delete(key string) error

	// Keys lists every stored key with the given prefix, sorted.
	Keys(prefix string) ([]string, error)
}

// Well-known document keys.
const (
	KeyItems   = "items"
	KeyLogs    = "logs"
	KeyProfile = "store"
	KeyAPIKeys = "api-keys"
)

// SalesBucketKey returns the key of the month bucket, e.g. "sales-2024-05".
func SalesBucketKey(yearMonth string) string { return "sales-" + yearMonth }

// SalesBucketPrefix matches every month bucket key.
const SalesBucketPrefix = "sales-"

// DailyReportKey returns e.g. "reports/daily/2024-05-20".
func DailyReportKey(date string) string { return "reports/daily/" + date }

// MonthlyReportKey returns e.g. "reports/monthly/2024-05".
func MonthlyReportKey(yearMonth string) string { return "reports/monthly/" + yearMonth }

// MonthlyReportPrefix matches every monthly report key.
const MonthlyReportPrefix = "reports/monthly/"

// DayCounterKey returns the purchase-sequence counter key for a date.
func DayCounterKey(date string) string { return "counters/daily/" + date }
