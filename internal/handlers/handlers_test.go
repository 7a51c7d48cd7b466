package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasir-pos/internal/audit"
	"kasir-pos/internal/auth"
	"kasir-pos/internal/handlers"
	"kasir-pos/internal/ledger"
	"kasir-pos/internal/middleware"
	"kasir-pos/internal/models"
	"kasir-pos/internal/reports"
	"kasir-pos/internal/sales"
	"kasir-pos/internal/sequence"
	"kasir-pos/internal/store"
)

const testKey = "test-key"

func newServer(t *testing.T) (*gin.Engine, *store.Memory) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := store.NewMemory()
	require.NoError(t, m.Write(store.KeyAPIKeys, models.KeyList{
		SchemaVersion: models.CurrentSchemaVersion,
		Keys:          []models.APIKey{{Key: testKey, User: "admin"}},
	}))

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	led := ledger.New(m)
	agg := reports.New(m)
	auditLog := audit.New(m, logger, nil)
	clock := func() time.Time { return time.Date(2024, 5, 20, 14, 30, 0, 0, time.UTC) }
	saleSvc := sales.New(m, led, sequence.New(m), agg, time.UTC, clock)

	itemH := &handlers.ItemHandler{Ledger: led, Audit: auditLog}
	saleH := &handlers.SaleHandler{Sales: saleSvc, Audit: auditLog}
	stockH := &handlers.StockHandler{Ledger: led}
	reportH := &handlers.ReportHandler{Reports: agg}
	logH := &handlers.LogHandler{Audit: auditLog}

	r := gin.New()
	api := r.Group("/")
	api.Use(middleware.APIKeyAuth(auth.NewGate(m)))
	{
		api.GET("/items/:id", itemH.GetItem)
		api.POST("/items", itemH.CreateItem)
		api.PUT("/items/:id", itemH.UpdateItem)
		api.DELETE("/items/:id", itemH.DeleteItem)
		api.POST("/sales", saleH.CommitSale)
		api.GET("/stock", stockH.GetStock)
		api.GET("/stock/category/:category", stockH.GetStockByCategory)
		api.GET("/reports/daily/:date", reportH.GetDailyReport)
		api.GET("/reports/monthly/:yearMonth", reportH.GetMonthlyReport)
		api.GET("/reports/popular", reportH.GetPopularItems)
		api.GET("/reports/top-customers", reportH.GetTopCustomers)
		api.GET("/reports/download", reportH.DownloadSalesCSV)
		api.GET("/logs", logH.GetLogs)
	}
	return r, m
}

func do(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("X-API-Key", testKey)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func createItem(t *testing.T, r *gin.Engine, name string, price, stock int) models.Item {
	t.Helper()
	w := do(t, r, http.MethodPost, "/items",
		`{"name":"`+name+`","price":`+strconv.Itoa(price)+`,"stock":`+strconv.Itoa(stock)+`}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Item models.Item `json:"item"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Item
}


func TestItems_CreateRestockAndFetch(t *testing.T) {
	r, _ := newServer(t)

	item := createItem(t, r, "Pen", 5, 10)
	assert.Equal(t, 10, item.Stock)

	// Same name restocks.
	w := do(t, r, http.MethodPost, "/items", `{"name":" pen ","price":99,"stock":5}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, "/items/"+item.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 15, got.Stock)
}

func TestItems_RenameConflictIs409(t *testing.T) {
	r, _ := newServer(t)
	createItem(t, r, "Widget", 5, 1)
	other := createItem(t, r, "Gadget", 5, 1)

	w := do(t, r, http.MethodPut, "/items/"+other.ID, `{"name":"widget "}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestItems_DeleteThen404(t *testing.T) {
	r, _ := newServer(t)
	item := createItem(t, r, "Pen", 5, 1)

	w := do(t, r, http.MethodDelete, "/items/"+item.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(t, r, http.MethodGet, "/items/"+item.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSales_CommitFlow(t *testing.T) {
	r, _ := newServer(t)
	item := createItem(t, r, "Pen", 5, 10)

	w := do(t, r, http.MethodPost, "/sales",
		`{"buyer":"alice","items":[{"id":"`+item.ID+`","qty":3}],"paymentAmount":20}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var sale models.Sale
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sale))
	assert.Equal(t, "200524001", sale.ID)
	assert.Equal(t, "admin", sale.Cashier)
	assert.True(t, sale.Change.Equal(decimal.NewFromInt(5)))

	// Oversell is a 400 naming the item.
	w = do(t, r, http.MethodPost, "/sales",
		`{"buyer":"bob","items":[{"id":"`+item.ID+`","qty":8}],"paymentAmount":100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock for Pen")

	// Unknown item is the caller's fault on this route, not a 404.
	w = do(t, r, http.MethodPost, "/sales",
		`{"buyer":"bob","items":[{"id":"NOPE","qty":1}],"paymentAmount":100}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSales_InsufficientPayment(t *testing.T) {
	r, _ := newServer(t)
	item := createItem(t, r, "Book", 100, 10)

	w := do(t, r, http.MethodPost, "/sales",
		`{"buyer":"alice","items":[{"id":"`+item.ID+`","qty":1}],"paymentAmount":50}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient payment")

	// Stock untouched.
	w = do(t, r, http.MethodGet, "/items/"+item.ID, "")
	var got models.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 10, got.Stock)
}

func TestStock_SortedAscending(t *testing.T) {
	r, _ := newServer(t)
	createItem(t, r, "Full", 5, 50)
	createItem(t, r, "Low", 5, 2)

	w := do(t, r, http.MethodGet, "/stock", "")
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "Low", items[0].Name)
}

func TestReports_DailyAndCSVAfterSale(t *testing.T) {
	r, _ := newServer(t)
	item := createItem(t, r, "Pen", 5, 10)
	w := do(t, r, http.MethodPost, "/sales",
		`{"buyer":"alice","items":[{"id":"`+item.ID+`","qty":3}],"paymentAmount":20}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, r, http.MethodGet, "/reports/daily/2024-05-20", "")
	require.Equal(t, http.StatusOK, w.Code)
	var daily models.DailyReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &daily))
	assert.Equal(t, 1, daily.TransactionCount)

	w = do(t, r, http.MethodGet, "/reports/download", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Body.String(), "alice,Pen,3,5,15")
}

func TestLogs_RecordActions(t *testing.T) {
	r, _ := newServer(t)
	createItem(t, r, "Pen", 5, 10)

	w := do(t, r, http.MethodGet, "/logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []models.LogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "New item created: Pen", entries[0].Action)
	assert.Equal(t, "admin", entries[0].User)
}
