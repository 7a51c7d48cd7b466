package handlers

import (
	"net/http"

	"kasir-pos/internal/ledger"

	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	Ledger *ledger.Ledger
}

// --- GET: All items, lowest stock first ---
func (h *StockHandler) GetStock(c *gin.Context) {
	items, err := h.Ledger.AllByStock()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// --- GET: Items in one category ---
func (h *StockHandler) GetStockByCategory(c *gin.Context) {
	items, err := h.Ledger.ByCategory(c.Param("category"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
