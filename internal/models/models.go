package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrentSchemaVersion tags every document written from now on.
const CurrentSchemaVersion = 1

// Item - one inventory record. Stock is never allowed below zero.
type Item struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Discount int             `json:"discount"` // percent, 0-100
	Stock    int             `json:"stock"`
	Photo    string          `json:"photo,omitempty"`
}

// LineItem - one basket line inside a committed sale.
// Name and UnitPrice are snapshots: editing or deleting the item later
// never rewrites history.
type LineItem struct {
	ItemID    string          `json:"id"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"` // after discount
	Total     decimal.Decimal `json:"total"`
}

// Sale - the transaction record. Immutable once committed, append-only.
type Sale struct {
	ID            string          `json:"id"` // DDMMYY + 3-digit day sequence
	Timestamp     time.Time       `json:"timestamp"`
	Cashier       string          `json:"cashier"`
	Buyer         string          `json:"buyer"`
	Items         []LineItem      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	PaymentAmount decimal.Decimal `json:"paymentAmount"`
	Change        decimal.Decimal `json:"change"`
}

// DailyReport - derived rollup for one calendar date. This is a cache over
// the day's transactions, fully recomputable, never the source of truth.
type DailyReport struct {
	SchemaVersion    int             `json:"schemaVersion"`
	Date             string          `json:"date"` // YYYY-MM-DD
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TransactionCount int             `json:"transactionCount"`
	Transactions     []Sale          `json:"transactions"`
}

// CustomerSpend - one top-customers row.
type CustomerSpend struct {
	Customer string          `json:"customer"` // normalized (trimmed, lowercased)
	Total    decimal.Decimal `json:"total"`
}

// PopularItem - one popular-items row.
type PopularItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// MonthlyReport - derived rollup for one year-month. TopCustomers and
// PopularItems are recomputed from Transactions on every commit.
type MonthlyReport struct {
	SchemaVersion    int             `json:"schemaVersion"`
	YearMonth        string          `json:"yearMonth"` // YYYY-MM
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TransactionCount int             `json:"transactionCount"`
	TopCustomers     []CustomerSpend `json:"topCustomers"`
	PopularItems     []PopularItem   `json:"popularItems"`
	Transactions     []Sale          `json:"transactions"`
}

// StoreProfile - cashier name and display settings shown on receipts.
type StoreProfile struct {
	Name    string `json:"name,omitempty"`
	Cashier string `json:"cashier,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Logo    string `json:"logo,omitempty"`
}

// APIKey - one entry of the access key list.
type APIKey struct {
	Key  string `json:"key"`
	User string `json:"user"`
}

// LogEntry - one action-log row. The log is append-only; ordering is
// append order.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
}

// ItemCollection is the persisted shape of the "items" document.
type ItemCollection struct {
	SchemaVersion int    `json:"schemaVersion"`
	Items         []Item `json:"items"`
}

// ActionLog is the persisted shape of the "logs" document.
type ActionLog struct {
	SchemaVersion int        `json:"schemaVersion"`
	Entries       []LogEntry `json:"entries"`
}

// SalesBucket is the persisted shape of one "sales/YYYY-MM" document.
type SalesBucket struct {
	SchemaVersion int    `json:"schemaVersion"`
	YearMonth     string `json:"yearMonth"`
	Sales         []Sale `json:"sales"`
}

// DayCounter is the persisted purchase-sequence counter for one date.
type DayCounter struct {
	SchemaVersion int    `json:"schemaVersion"`
	Date          string `json:"date"` // YYYY-MM-DD
	LastSeq       int    `json:"lastSeq"`
}

// KeyList is the persisted shape of the "api-keys" document.
type KeyList struct {
	SchemaVersion int      `json:"schemaVersion"`
	Keys          []APIKey `json:"keys"`
}
