package handlers

import (
	"fmt"
	"net/http"

	"kasir-pos/internal/audit"
	"kasir-pos/internal/errs"
	"kasir-pos/internal/middleware"
	"kasir-pos/internal/sales"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SaleHandler struct {
	Sales *sales.Service
	Audit *audit.Log
}

// SaleRequest defines what the frontend sends on checkout
type SaleRequest struct {
	Buyer string `json:"buyer"`
	Items []struct {
		ID  string `json:"id"`
		Qty int    `json:"qty"`
	} `json:"items"`
	PaymentAmount *decimal.Decimal `json:"paymentAmount"`
}

// --- POST: Commit a sale ---
func (h *SaleHandler) CommitSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	commit := sales.Request{
		Buyer:         req.Buyer,
		PaymentAmount: req.PaymentAmount,
	}
	for _, line := range req.Items {
		commit.Items = append(commit.Items, sales.Line{ItemID: line.ID, Qty: line.Qty})
	}

	user := middleware.User(c)
	sale, err := h.Sales.Commit(commit, user)
	if err != nil {
		// A basket naming an unknown item is the caller's mistake, not a
		// missing resource on this route.
		if errs.IsNotFound(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		fail(c, err)
		return
	}

	h.Audit.Record(user, fmt.Sprintf("New sale: %s", sale.ID))
	c.JSON(http.StatusCreated, sale)
}
