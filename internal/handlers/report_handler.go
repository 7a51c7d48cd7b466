package handlers

import (
	"net/http"

	"kasir-pos/internal/reports"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	Reports *reports.Aggregator
}

// --- GET: /reports/daily/:date ---
// A day with no sales returns an empty report rather than a 404, so the
// dashboard can always render.
func (h *ReportHandler) GetDailyReport(c *gin.Context) {
	report, err := h.Reports.LoadDaily(c.Param("date"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET: /reports/monthly/:yearMonth ---
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	report, err := h.Reports.LoadMonthly(c.Param("yearMonth"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET: /reports/popular ---
func (h *ReportHandler) GetPopularItems(c *gin.Context) {
	items, err := h.Reports.AllTimePopularItems()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// --- GET: /reports/top-customers ---
func (h *ReportHandler) GetTopCustomers(c *gin.Context) {
	customers, err := h.Reports.AllTimeTopCustomers()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

// --- GET: /reports/download ---
// Streams every sale as CSV, one row per line item.
func (h *ReportHandler) DownloadSalesCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", "attachment; filename=sales-report.csv")
	if err := h.Reports.ExportCSV(c.Writer); err != nil {
		// Headers are already written at this point; cut the stream.
		c.Status(http.StatusInternalServerError)
	}
}
