package reports

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kasir-pos/internal/errs"
	"kasir-pos/internal/models"
	"kasir-pos/internal/store"
)

// AllTimePopularItems merges the stored monthly rollups. It deliberately
// never rescans the raw sales buckets: the rollup already counted every
// transaction once, and scanning both would count them twice.
func (a *Aggregator) AllTimePopularItems() ([]models.PopularItem, error) {
	monthly, err := a.allMonthly()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.PopularItem)
	for _, report := range monthly {
		for _, p := range report.PopularItems {
			agg, ok := byID[p.ID]
			if !ok {
				agg = &models.PopularItem{ID: p.ID, Name: p.Name}
				byID[p.ID] = agg
			}
			agg.Quantity += p.Quantity
		}
	}
	ranked := make([]models.PopularItem, 0, len(byID))
	for _, p := range byID {
		ranked = append(ranked, *p)
	}
	sortPopular(ranked)
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked, nil
}

// AllTimeTopCustomers merges the stored monthly top-customer rollups.
func (a *Aggregator) AllTimeTopCustomers() ([]models.CustomerSpend, error) {
	monthly, err := a.allMonthly()
	if err != nil {
		return nil, err
	}
	spend := make(map[string]decimal.Decimal)
	for _, report := range monthly {
		for _, c := range report.TopCustomers {
			spend[c.Customer] = spend[c.Customer].Add(c.Total)
		}
	}
	ranked := make([]models.CustomerSpend, 0, len(spend))
	for customer, total := range spend {
		ranked = append(ranked, models.CustomerSpend{Customer: customer, Total: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if !ranked[i].Total.Equal(ranked[j].Total) {
			return ranked[i].Total.GreaterThan(ranked[j].Total)
		}
		return ranked[i].Customer < ranked[j].Customer
	})
	if len(ranked) > TopN {
		ranked = ranked[:TopN]
	}
	return ranked, nil
}

func (a *Aggregator) allMonthly() ([]models.MonthlyReport, error) {
	keys, err := a.store.Keys(store.MonthlyReportPrefix)
	if err != nil {
		return nil, &errs.StorageError{Key: store.MonthlyReportPrefix, Err: err}
	}
	reports := make([]models.MonthlyReport, 0, len(keys))
	for _, key := range keys {
		var r models.MonthlyReport
		if err := a.store.Read(key, &r); err != nil {
			return nil, &errs.StorageError{Key: key, Err: err}
		}
		reports = append(reports, r)
	}
	return reports, nil
}

// ExportCSV writes one row per sold line item across every sales bucket.
func (a *Aggregator) ExportCSV(w io.Writer) error {
	keys, err := a.store.Keys(store.SalesBucketPrefix)
	if err != nil {
		return &errs.StorageError{Key: store.SalesBucketPrefix, Err: err}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Timestamp", "Buyer", "Item Name", "Quantity", "Price", "Total"}); err != nil {
		return err
	}
	for _, key := range keys {
		// Buckets live at the top level; nested keys are not sales data.
		if strings.Contains(key, "/") {
			continue
		}
		var bucket models.SalesBucket
		if err := a.store.Read(key, &bucket); err != nil {
			return &errs.StorageError{Key: key, Err: err}
		}
		for _, sale := range bucket.Sales {
			for _, li := range sale.Items {
				row := []string{
					sale.Timestamp.Format(time.RFC3339),
					sale.Buyer,
					li.Name,
					strconv.Itoa(li.Qty),
					li.UnitPrice.String(),
					li.Total.String(),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
