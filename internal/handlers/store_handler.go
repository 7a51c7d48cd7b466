package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"kasir-pos/internal/audit"
	"kasir-pos/internal/errs"
	"kasir-pos/internal/middleware"
	"kasir-pos/internal/models"
	"kasir-pos/internal/store"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	Store      store.Store
	Audit      *audit.Log
	UploadsDir string
	BaseURL    string

	mu sync.Mutex // serializes profile read-modify-write
}

// --- GET: Current store profile ---
func (h *StoreHandler) GetProfile(c *gin.Context) {
	profile, err := h.loadProfile()
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// --- PUT: Replace store profile ---
// Full replace, matching how the settings screen submits the whole form.
// The logo path survives: it is owned by the upload endpoint.
func (h *StoreHandler) UpdateProfile(c *gin.Context) {
	var req models.StoreProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	current, err := h.loadProfile()
	if err != nil {
		fail(c, err)
		return
	}
	req.Logo = current.Logo

	if err := h.Store.Write(store.KeyProfile, req); err != nil {
		fail(c, &errs.StorageError{Key: store.KeyProfile, Err: err})
		return
	}
	h.Audit.Record(middleware.User(c), "Store settings updated")
	c.JSON(http.StatusOK, req)
}

// --- POST: Upload store logo ---
func (h *StoreHandler) UploadLogo(c *gin.Context) {
	file, err := c.FormFile("logo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	// Timestamp prefix keeps successive uploads from clobbering each other.
	filename := fmt.Sprintf("%d_%s", time.Now().Unix(), filepath.Base(file.Filename))
	dest := filepath.Join(h.UploadsDir, filename)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	profile, err := h.loadProfile()
	if err != nil {
		fail(c, err)
		return
	}
	profile.Logo = "/uploads/" + filename
	if err := h.Store.Write(store.KeyProfile, profile); err != nil {
		fail(c, &errs.StorageError{Key: store.KeyProfile, Err: err})
		return
	}

	h.Audit.Record(middleware.User(c), "Store logo updated")
	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"url":     h.BaseURL + profile.Logo,
	})
}

func (h *StoreHandler) loadProfile() (models.StoreProfile, error) {
	var profile models.StoreProfile
	err := h.Store.Read(store.KeyProfile, &profile)
	if err != nil && err != store.ErrNotFound {
		return profile, &errs.StorageError{Key: store.KeyProfile, Err: err}
	}
	return profile, nil
}
