package handlers

import (
	"fmt"
	"net/http"

	"kasir-pos/internal/audit"
	"kasir-pos/internal/ledger"
	"kasir-pos/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ItemHandler struct {
	Ledger *ledger.Ledger
	Audit  *audit.Log
}

// --- GET: Fetch one item ---
func (h *ItemHandler) GetItem(c *gin.Context) {
	item, err := h.Ledger.Get(c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItemRequest defines what the frontend sends on POST /items
type CreateItemRequest struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category string          `json:"category"`
}

// --- POST: Create or restock by name ---
// Posting an existing name tops up its stock; a new name creates the item.
func (h *ItemHandler) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	item, created, err := h.Ledger.UpsertRestock(req.Name, req.Stock, ledger.RestockAttrs{
		Price:    req.Price,
		Category: req.Category,
	})
	if err != nil {
		fail(c, err)
		return
	}

	user := middleware.User(c)
	if created {
		h.Audit.Record(user, fmt.Sprintf("New item created: %s", item.Name))
	} else {
		h.Audit.Record(user, fmt.Sprintf("Stock updated for %s", item.Name))
	}

	// The frontend re-renders its whole inventory table from this response.
	items, err := h.Ledger.AllByStock()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item, "items": items})
}

// UpdateItemRequest - pointer fields so partial updates only touch what
// was actually sent.
type UpdateItemRequest struct {
	Name     *string          `json:"name"`
	Category *string          `json:"category"`
	Price    *decimal.Decimal `json:"price"`
	Discount *int             `json:"discount"`
	Stock    *int             `json:"stock"`
	Photo    *string          `json:"photo"`
}

// --- PUT: Partial update ---
func (h *ItemHandler) UpdateItem(c *gin.Context) {
	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	item, err := h.Ledger.Update(c.Param("id"), ledger.UpdateFields{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Discount: req.Discount,
		Stock:    req.Stock,
		Photo:    req.Photo,
	})
	if err != nil {
		fail(c, err)
		return
	}

	h.Audit.Record(middleware.User(c), fmt.Sprintf("Item updated: %s", item.Name))
	c.JSON(http.StatusOK, item)
}

// --- DELETE: Remove an item ---
// Past sales snapshot name and price, so history stays intact.
func (h *ItemHandler) DeleteItem(c *gin.Context) {
	id := c.Param("id")
	if err := h.Ledger.Delete(id); err != nil {
		fail(c, err)
		return
	}
	h.Audit.Record(middleware.User(c), fmt.Sprintf("Item deleted: %s", id))
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
