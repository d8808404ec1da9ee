package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	duesapp "github.com/asociacion/backend/internal/application/dues"
	memberapp "github.com/asociacion/backend/internal/application/member"
	"github.com/asociacion/backend/internal/infrastructure/config"
	"github.com/asociacion/backend/internal/infrastructure/logger"
	"github.com/asociacion/backend/internal/infrastructure/persistence"
	"github.com/asociacion/backend/internal/interfaces/http/handler"
	"github.com/asociacion/backend/internal/interfaces/http/middleware"
	"github.com/asociacion/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			API Asociación de Vivienda
//	@version		1.0
//	@description	Gestión de socios y aportes - registro masivo de cuotas, edición por lote y exportación.

//	@host		localhost:8080
//	@BasePath	/api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting asociacion backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	memberRepo := persistence.NewGormMemberRepository(db.DB)
	dueRecordRepo := persistence.NewGormDueRecordRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	memberService := memberapp.NewService(memberRepo, log)
	bulkService := duesapp.NewBulkRegistrationService(memberRepo, dueRecordRepo, txScope, log)
	editorService := duesapp.NewBatchEditorService(batchRepo, dueRecordRepo, memberRepo, txScope, log)
	reconciliationService := duesapp.NewReconciliationService(batchRepo, dueRecordRepo, memberRepo, log)
	dueService := duesapp.NewDueService(dueRecordRepo, memberRepo, txScope, log)

	// Initialize handlers
	memberHandler := handler.NewMemberHandler(memberService, reconciliationService)
	dueHandler := handler.NewDueHandler(dueService)
	batchHandler := handler.NewBatchHandler(bulkService, editorService, reconciliationService)

	// Setup gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	// Middleware order matters:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Setup API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Member roster
	memberRoutes := router.NewDomainGroup("socios", "/socios")
	memberRoutes.GET("", memberHandler.List)
	memberRoutes.GET("/morosos", memberHandler.ListDelinquent)
	memberRoutes.GET("/export", memberHandler.Export)
	memberRoutes.GET("/:id", memberHandler.Get)
	memberRoutes.POST("", memberHandler.Create)
	memberRoutes.PUT("/:id", memberHandler.Update)
	memberRoutes.POST("/:id/reconciliar", memberHandler.ReconcileBalance)
	memberRoutes.GET("/:id/aportes", dueHandler.ListByMember)

	// Individual due records
	dueRoutes := router.NewDomainGroup("aportes", "/aportes")
	dueRoutes.GET("", dueHandler.List)
	dueRoutes.GET("/:id", dueHandler.Get)
	dueRoutes.POST("", dueHandler.Create)
	dueRoutes.PUT("/:id", dueHandler.Update)
	dueRoutes.DELETE("/:id", dueHandler.Delete)

	// Bulk registration batches
	batchRoutes := router.NewDomainGroup("registros-masivos", "/registros-masivos")
	batchRoutes.GET("", batchHandler.List)
	batchRoutes.POST("", batchHandler.Create)
	batchRoutes.POST("/duplicados", batchHandler.CheckDuplicates)
	batchRoutes.GET("/:id", batchHandler.GetDetail)
	batchRoutes.GET("/:id/export", batchHandler.Export)
	batchRoutes.PUT("/:id/aportes/:aporteId", batchHandler.UpdateChildRecord)
	batchRoutes.DELETE("/:id", batchHandler.Delete)
	batchRoutes.POST("/:id/reconciliar", batchHandler.ReconcileTotals)

	r.Register(memberRoutes).
		Register(dueRoutes).
		Register(batchRoutes)

	r.Setup()

	// Simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
