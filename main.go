package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dizegn/Prevtech-sub001/config"
	"github.com/dizegn/Prevtech-sub001/handler"
	"github.com/dizegn/Prevtech-sub001/middleware"
	"github.com/dizegn/Prevtech-sub001/pkg/logger"
	"github.com/dizegn/Prevtech-sub001/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Catalog and seed data
	catalog := service.NewCatalog()
	if cfg.Catalog.Seed {
		service.SeedCatalog(catalog)
	}

	notifier := service.NewLogNotifier()
	sink := service.NewCatalogSink(catalog, notifier)
	tasks := service.NewTaskStore()

	// Record-lookup adapters
	pubLookup, benLookup := buildLookups(cfg)
	manager := service.NewIntakeManager(pubLookup, benLookup, cfg.Roster)

	// Initialize handlers
	processHandler := handler.NewProcessHandler(catalog, notifier, cfg)
	intakeHandler := handler.NewIntakeHandler(manager, sink)
	taskHandler := handler.NewTaskHandler(tasks, catalog)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(corsMiddleware())
	router.Use(middleware.RateLimit(cfg.RateLimit.PerMinute, time.Minute))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.GET("/processes", processHandler.List)
		api.GET("/processes/metrics", processHandler.Metrics)
		api.GET("/processes/:id", processHandler.Get)
		api.PUT("/processes/:id", processHandler.Update)
		api.POST("/processes/:id/archive", processHandler.ArchiveRequest)
		api.POST("/processes/:id/archive/confirm", processHandler.ArchiveConfirm)

		api.POST("/processes/:id/tasks", taskHandler.Create)
		api.GET("/processes/:id/tasks", taskHandler.List)

		api.POST("/intake", intakeHandler.Open)
		api.GET("/intake/:id", intakeHandler.Get)
		api.POST("/intake/:id/search", intakeHandler.Search)
		api.PUT("/intake/:id/fields", intakeHandler.SetFields)
		api.POST("/intake/:id/reset", intakeHandler.Reset)
		api.POST("/intake/:id/save", intakeHandler.Save)
		api.DELETE("/intake/:id", intakeHandler.Cancel)
	}

	// Document storage is optional; routes only exist when enabled
	if cfg.Storage.Enabled {
		documents, err := service.NewDocumentService(&cfg.Storage)
		if err != nil {
			slog.Error("failed to initialize document storage", "error", err)
			os.Exit(1)
		}
		if err := documents.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure storage bucket", "error", err)
			os.Exit(1)
		}
		documentHandler := handler.NewDocumentHandler(documents, catalog)
		api.POST("/processes/:id/documents", documentHandler.Upload)
		api.GET("/processes/:id/documents", documentHandler.List)
		slog.Info("document storage enabled", "bucket", cfg.Storage.Bucket)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// buildLookups selects the configured lookup adapters. The stub provider
// serves deterministic fixtures and needs no external registry.
func buildLookups(cfg *config.Config) (service.PublicationLookup, service.BenefitLookup) {
	if cfg.Lookup.Provider == "http" {
		timeout := time.Duration(cfg.Lookup.TimeoutSeconds) * time.Second
		return service.NewHTTPPublicationLookup(&cfg.Lookup.Publication, timeout),
			service.NewHTTPBenefitLookup(&cfg.Lookup.Benefit, timeout)
	}
	return service.NewStubPublicationLookup(), service.NewStubBenefitLookup()
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
