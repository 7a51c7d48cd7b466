package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasir-pos/internal/auth"
	"kasir-pos/internal/middleware"
	"kasir-pos/internal/models"
	"kasir-pos/internal/store"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := store.NewMemory()
	require.NoError(t, m.Write(store.KeyAPIKeys, models.KeyList{
		SchemaVersion: models.CurrentSchemaVersion,
		Keys:          []models.APIKey{{Key: "abc123", User: "kasir1"}},
	}))

	r := gin.New()
	r.Use(middleware.APIKeyAuth(auth.NewGate(m)))
	r.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": middleware.User(c)})
	})
	return r
}

func TestAPIKeyAuth_MissingKey(t *testing.T) {
	r := newRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "API Key required")
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	r := newRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-Key", "wrong")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid API Key")
}

func TestAPIKeyAuth_ValidKeySetsUser(t *testing.T) {
	r := newRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("X-API-Key", "abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kasir1")
}
