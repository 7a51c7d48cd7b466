package handlers

import (
	"net/http"

	"kasir-pos/internal/audit"

	"github.com/gin-gonic/gin"
)

type LogHandler struct {
	Audit *audit.Log
}

// --- GET: Action log, append order ---
func (h *LogHandler) GetLogs(c *gin.Context) {
	entries, err := h.Audit.Entries()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
