// Package reports maintains the daily and monthly rollups and answers the
// derived queries (popular items, top customers, CSV export).
//
// Rollups are caches over the transaction lists they carry: totals are
// recomputed from the full list on every write, never incremented, so they
// cannot drift. Top-N lists are likewise fully recomputed per sale, which
// is O(transactions) per commit - fine for a single small store, and the
// known ceiling if volume ever grows.
package reports

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"kasir-pos/internal/errs"
	"kasir-pos/internal/models"
	"kasir-pos/internal/store"
)

// TopN is how many rows the top-customers and popular-items lists keep.
const TopN = 10

type Aggregator struct {
	store store.Store
}

func New(s store.Store) *Aggregator {
	return &Aggregator{store: s}
}

// LoadDaily returns the stored daily report, or a fresh empty one.
func (a *Aggregator) LoadDaily(date string) (models.DailyReport, error) {
	var r models.DailyReport
	err := a.store.Read(store.DailyReportKey(date), &r)
	if err != nil && err != store.ErrNotFound {
		return r, &errs.StorageError{Key: store.DailyReportKey(date), Err: err}
	}
	if r.Transactions == nil {
		r.Transactions = []models.Sale{}
	}
	r.SchemaVersion = models.CurrentSchemaVersion
	r.Date = date
	return r, nil
}

// LoadMonthly returns the stored monthly report, or a fresh empty one.
func (a *Aggregator) LoadMonthly(yearMonth string) (models.MonthlyReport, error) {
	var r models.MonthlyReport
	err := a.store.Read(store.MonthlyReportKey(yearMonth), &r)
	if err != nil && err != store.ErrNotFound {
		return r, &errs.StorageError{Key: store.MonthlyReportKey(yearMonth), Err: err}
	}
	if r.Transactions == nil {
		r.Transactions = []models.Sale{}
	}
	r.SchemaVersion = models.CurrentSchemaVersion
	r.YearMonth = yearMonth
	return r, nil
}

// ApplyDaily appends the sale and recomputes the rollup fields.
func ApplyDaily(r models.DailyReport, sale models.Sale) models.DailyReport {
	r.Transactions = append(r.Transactions, sale)
	r.TotalRevenue = sumTotals(r.Transactions)
	r.TransactionCount = len(r.Transactions)
	return r
}

// ApplyMonthly appends the sale, recomputes the rollup fields and rebuilds
// both top-N lists from the complete transaction list.
func ApplyMonthly(r models.MonthlyReport, sale models.Sale) models.MonthlyReport {
	r.Transactions = append(r.Transactions, sale)
	r.TotalRevenue = sumTotals(r.Transactions)
	r.TransactionCount = len(r.Transactions)
	r.TopCustomers = TopCustomers(r.Transactions, TopN)
	r.PopularItems = RankPopularItems(r.Transactions, TopN)
	return r
}

func sumTotals(sales []models.Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		total = total.Add(s.Total)
	}
	return total
}

// TopCustomers groups by normalized buyer name and sums spend. Ties in
// spend rank lexicographically by name, so the order is deterministic.
func TopCustomers(sales []models.Sale, n int) []models.CustomerSpend {
	spend := make(map[string]decimal.Decimal)
	for _, s := range sales {
		buyer := strings.ToLower(strings.TrimSpace(s.Buyer))
		spend[buyer] = spend[buyer].Add(s.Total)
	}
	ranked := make([]models.CustomerSpend, 0, len(spend))
	for buyer, total := range spend {
		ranked = append(ranked, models.CustomerSpend{Customer: buyer, Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Total.Equal(ranked[j].Total) {
			return ranked[i].Total.GreaterThan(ranked[j].Total)
		}
		return ranked[i].Customer < ranked[j].Customer
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RankPopularItems groups line items by item id and sums quantities. Ties
// in quantity rank lexicographically by name.
func RankPopularItems(sales []models.Sale, n int) []models.PopularItem {
	byID := make(map[string]*models.PopularItem)
	for _, s := range sales {
		for _, li := range s.Items {
			p, ok := byID[li.ItemID]
			if !ok {
				p = &models.PopularItem{ID: li.ItemID, Name: li.Name}
				byID[li.ItemID] = p
			}
			p.Quantity += li.Qty
		}
	}
	ranked := make([]models.PopularItem, 0, len(byID))
	for _, p := range byID {
		ranked = append(ranked, *p)
	}
	sortPopular(ranked)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func sortPopular(items []models.PopularItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Quantity != items[j].Quantity {
			return items[i].Quantity > items[j].Quantity
		}
		return items[i].Name < items[j].Name
	})
}
