// Package sales is the commit pipeline: validate a basket against the
// ledger, price the lines, debit stock, append the transaction to its
// month bucket and refresh both rollups - all or nothing.
package sales

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"kasir-pos/internal/errs"
	"kasir-pos/internal/ledger"
	"kasir-pos/internal/models"
	"kasir-pos/internal/reports"
	"kasir-pos/internal/sequence"
	"kasir-pos/internal/store"
)

// Line is one requested basket line.
type Line struct {
	ItemID string
	Qty    int
}

// Request is a sale as the caller asks for it.
type Request struct {
	Buyer         string
	Items         []Line
	PaymentAmount *decimal.Decimal // pointer: "absent" and "zero" are different rejections
}

type Service struct {
	store  store.Store
	ledger *ledger.Ledger
	seq    *sequence.Generator
	agg    *reports.Aggregator
	clock  func() time.Time
	loc    *time.Location
}

func New(s store.Store, l *ledger.Ledger, seq *sequence.Generator, agg *reports.Aggregator, loc *time.Location, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: s, ledger: l, seq: seq, agg: agg, clock: clock, loc: loc}
}

// Commit runs the whole pipeline under the ledger lock. Every mutation is
// staged in memory first; nothing is persisted until all lines validated,
// payment covered and the purchase id assigned. The staged documents then
// land through one batch, so a storage failure leaves no partial effects.
//
// cashierFallback is the authenticated caller; it is used when the store
// profile has no cashier configured.
func (s *Service) Commit(req Request, cashierFallback string) (models.Sale, error) {
	if strings.TrimSpace(req.Buyer) == "" {
		return models.Sale{}, errs.Validation("buyer is required")
	}
	if len(req.Items) == 0 {
		return models.Sale{}, errs.Validation("items must be a non-empty list")
	}
	for _, line := range req.Items {
		if line.Qty <= 0 {
			return models.Sale{}, errs.Validation("quantity must be positive for item %s", line.ItemID)
		}
	}
	if req.PaymentAmount == nil {
		return models.Sale{}, errs.Validation("paymentAmount is required")
	}

	s.ledger.Lock()
	defer s.ledger.Unlock()

	now := s.clock().In(s.loc)
	date := now.Format("2006-01-02")
	yearMonth := now.Format("2006-01")

	col, err := s.ledger.Load()
	if err != nil {
		return models.Sale{}, err
	}
	bucket, err := s.loadBucket(yearMonth)
	if err != nil {
		return models.Sale{}, err
	}
	daily, err := s.agg.LoadDaily(date)
	if err != nil {
		return models.Sale{}, err
	}
	monthly, err := s.agg.LoadMonthly(yearMonth)
	if err != nil {
		return models.Sale{}, err
	}

	sale := models.Sale{
		Timestamp:     now,
		Cashier:       s.cashier(cashierFallback),
		Buyer:         req.Buyer,
		Items:         make([]models.LineItem, 0, len(req.Items)),
		Total:         decimal.Zero,
		PaymentAmount: *req.PaymentAmount,
	}

	// Stock is debited against the in-memory snapshot only. If a later
	// line (or the payment check) fails, the snapshot is simply dropped.
	for _, line := range req.Items {
		item, err := ledger.Debit(&col, line.ItemID, line.Qty)
		if err != nil {
			return models.Sale{}, err
		}
		unitPrice := discountedPrice(item.Price, item.Discount)
		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(line.Qty)))
		sale.Items = append(sale.Items, models.LineItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Qty:       line.Qty,
			UnitPrice: unitPrice,
			Total:     lineTotal,
		})
		sale.Total = sale.Total.Add(lineTotal)
	}

	if sale.PaymentAmount.LessThan(sale.Total) {
		return models.Sale{}, &errs.InsufficientPaymentError{
			Total:    sale.Total,
			Received: sale.PaymentAmount,
		}
	}
	sale.Change = sale.PaymentAmount.Sub(sale.Total)

	id, counter, err := s.seq.Next(now)
	if err != nil {
		return models.Sale{}, err
	}
	sale.ID = id

	bucket.Sales = append(bucket.Sales, sale)
	daily = reports.ApplyDaily(daily, sale)
	monthly = reports.ApplyMonthly(monthly, sale)
	col.SchemaVersion = models.CurrentSchemaVersion
	bucket.SchemaVersion = models.CurrentSchemaVersion

	var batch store.Batch
	batch.Put(store.KeyItems, col)
	batch.Put(store.SalesBucketKey(yearMonth), bucket)
	batch.Put(store.DailyReportKey(date), daily)
	batch.Put(store.MonthlyReportKey(yearMonth), monthly)
	batch.Put(store.DayCounterKey(date), counter)
	if err := batch.Apply(s.store); err != nil {
		return models.Sale{}, &errs.StorageError{Key: "sale commit", Err: err}
	}

	return sale, nil
}

func (s *Service) loadBucket(yearMonth string) (models.SalesBucket, error) {
	var bucket models.SalesBucket
	err := s.store.Read(store.SalesBucketKey(yearMonth), &bucket)
	if err != nil && err != store.ErrNotFound {
		return bucket, &errs.StorageError{Key: store.SalesBucketKey(yearMonth), Err: err}
	}
	if bucket.Sales == nil {
		bucket.Sales = []models.Sale{}
	}
	bucket.YearMonth = yearMonth
	return bucket, nil
}

func (s *Service) cashier(fallback string) string {
	var profile models.StoreProfile
	if err := s.store.Read(store.KeyProfile, &profile); err == nil && profile.Cashier != "" {
		return profile.Cashier
	}
	if fallback != "" {
		return fallback
	}
	return "Unknown"
}

func discountedPrice(price decimal.Decimal, discountPct int) decimal.Decimal {
	if discountPct <= 0 {
		return price
	}
	factor := decimal.NewFromInt(int64(100 - discountPct)).Div(decimal.NewFromInt(100))
	return price.Mul(factor)
}
