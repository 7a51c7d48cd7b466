package reports_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasir-pos/internal/models"
	"kasir-pos/internal/reports"
	"kasir-pos/internal/store"
)

func sale(id, buyer string, total int64, items ...models.LineItem) models.Sale {
	return models.Sale{
		ID:        id,
		Timestamp: time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC),
		Buyer:     buyer,
		Items:     items,
		Total:     decimal.NewFromInt(total),
	}
}

func line(itemID, name string, qty int) models.LineItem {
	return models.LineItem{ItemID: itemID, Name: name, Qty: qty}
}

func TestApplyDaily_RecomputesTotalsFromTransactions(t *testing.T) {
	r := models.DailyReport{Date: "2024-05-20", Transactions: []models.Sale{}}

	r = reports.ApplyDaily(r, sale("200524001", "alice", 30))
	r = reports.ApplyDaily(r, sale("200524002", "bob", 50))

	assert.Equal(t, 2, r.TransactionCount)
	assert.True(t, r.TotalRevenue.Equal(decimal.NewFromInt(80)))

	// Recomputing from the stored transactions matches the stored value -
	// the rollup cannot drift.
	recomputed := decimal.Zero
	for _, tx := range r.Transactions {
		recomputed = recomputed.Add(tx.Total)
	}
	assert.True(t, recomputed.Equal(r.TotalRevenue))
	assert.Equal(t, len(r.Transactions), r.TransactionCount)
}

func TestApplyMonthly_RebuildsTopLists(t *testing.T) {
	r := models.MonthlyReport{YearMonth: "2024-05", Transactions: []models.Sale{}}

	r = reports.ApplyMonthly(r, sale("1", "Alice", 30, line("P1", "Pen", 2)))
	r = reports.ApplyMonthly(r, sale("2", "bob", 50, line("B1", "Book", 1)))
	r = reports.ApplyMonthly(r, sale("3", " alice ", 20, line("P1", "Pen", 4)))

	assert.True(t, r.TotalRevenue.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, 3, r.TransactionCount)

	require.Len(t, r.TopCustomers, 2)
	// alice: 30+20=50, bob: 50. Tie ranks lexicographically: alice first.
	assert.Equal(t, "alice", r.TopCustomers[0].Customer)
	assert.True(t, r.TopCustomers[0].Total.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "bob", r.TopCustomers[1].Customer)

	require.Len(t, r.PopularItems, 2)
	assert.Equal(t, "Pen", r.PopularItems[0].Name)
	assert.Equal(t, 6, r.PopularItems[0].Quantity)
}

func TestTopCustomers_NormalizesBuyerNames(t *testing.T) {
	sales := []models.Sale{
		sale("1", "Alice", 10),
		sale("2", "ALICE ", 15),
		sale("3", "bob", 5),
	}
	top := reports.TopCustomers(sales, 10)

	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].Customer)
	assert.True(t, top[0].Total.Equal(decimal.NewFromInt(25)))
}

func TestTopCustomers_CapsAtN(t *testing.T) {
	var sales []models.Sale
	for i := 0; i < 15; i++ {
		sales = append(sales, sale("x", string(rune('a'+i)), int64(i+1)))
	}
	top := reports.TopCustomers(sales, 10)
	assert.Len(t, top, 10)
	// Highest spender first.
	assert.Equal(t, "o", top[0].Customer)
}

func TestRankPopularItems_TieBreaksByName(t *testing.T) {
	sales := []models.Sale{
		sale("1", "x", 0, line("Z9", "Zebra", 3), line("A1", "Apple", 3), line("M5", "Mango", 7)),
	}
	ranked := reports.RankPopularItems(sales, 10)

	require.Len(t, ranked, 3)
	assert.Equal(t, "Mango", ranked[0].Name)
	assert.Equal(t, "Apple", ranked[1].Name)
	assert.Equal(t, "Zebra", ranked[2].Name)
}

func TestLoadDaily_MissingReportIsEmpty(t *testing.T) {
	agg := reports.New(store.NewMemory())

	r, err := agg.LoadDaily("2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20", r.Date)
	assert.Empty(t, r.Transactions)
	assert.Equal(t, models.CurrentSchemaVersion, r.SchemaVersion)
}

func TestLoadMonthly_MissingReportIsEmpty(t *testing.T) {
	agg := reports.New(store.NewMemory())

	r, err := agg.LoadMonthly("2024-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-05", r.YearMonth)
	assert.Empty(t, r.Transactions)
}
