package main

import (
	"os"
	"time"

	"kasir-pos/internal/audit"
	"kasir-pos/internal/auth"
	"kasir-pos/internal/config"
	"kasir-pos/internal/handlers"
	"kasir-pos/internal/ledger"
	"kasir-pos/internal/middleware"
	"kasir-pos/internal/models"
	"kasir-pos/internal/reports"
	"kasir-pos/internal/sales"
	"kasir-pos/internal/sequence"
	"kasir-pos/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found")
	}
	cfg := config.Load()

	st, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open data directory")
	}
	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		logger.WithError(err).Fatal("Failed to create uploads directory")
	}

	gate := auth.NewGate(st)
	if err := seedDocuments(st, gate); err != nil {
		logger.WithError(err).Fatal("Failed to seed initial documents")
	}
	logger.Info("✅ Data directory ready: ", cfg.DataDir)

	// Wire the core. Everything takes its storage handle explicitly; there
	// are no package-level collections anywhere.
	led := ledger.New(st)
	seq := sequence.New(st)
	agg := reports.New(st)
	auditLog := audit.New(st, logger, func() time.Time { return time.Now().In(cfg.Location) })
	saleSvc := sales.New(st, led, seq, agg, cfg.Location, nil)

	itemH := &handlers.ItemHandler{Ledger: led, Audit: auditLog}
	saleH := &handlers.SaleHandler{Sales: saleSvc, Audit: auditLog}
	stockH := &handlers.StockHandler{Ledger: led}
	reportH := &handlers.ReportHandler{Reports: agg}
	storeH := &handlers.StoreHandler{Store: st, Audit: auditLog, UploadsDir: cfg.UploadsDir, BaseURL: cfg.BaseURL}
	logH := &handlers.LogHandler{Audit: auditLog}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.Static("/uploads", cfg.UploadsDir)

	// --- PROTECTED ROUTES ---
	api := r.Group("/")
	api.Use(middleware.APIKeyAuth(gate))
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

		api.GET("/store", storeH.GetProfile)
		api.PUT("/store", storeH.UpdateProfile)
		api.POST("/store/logo", storeH.UploadLogo)
	}

	logger.Info("🚀 Server starting on ", cfg.BaseURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.WithError(err).Fatal("Server failed to start")
	}
}

// seedDocuments writes the initial documents a fresh install needs. Existing
// documents are never touched.
func seedDocuments(st store.Store, gate *auth.Gate) error {
	if err := gate.Seed(); err != nil {
		return err
	}
	seeds := map[string]any{
		store.KeyItems: models.ItemCollection{
			SchemaVersion: models.CurrentSchemaVersion,
			Items:         []models.Item{},
		},
		store.KeyLogs: models.ActionLog{
			SchemaVersion: models.CurrentSchemaVersion,
			Entries:       []models.LogEntry{},
		},
		store.KeyProfile: models.StoreProfile{},
	}
	for key, doc := range seeds {
		if _, err := st.ReadRaw(key); err == store.ErrNotFound {
			if err := st.Write(key, doc); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
