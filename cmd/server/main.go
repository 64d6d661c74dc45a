package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/config"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/handlers"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/middleware"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/repositories"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/scheduler"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/services"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/logger"
	"github.com/kyvra-tech/walrus-nodes-tracker-backend/pkg/metrics"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger := logger.New(cfg.Logger.Level, cfg.Logger.Format)

	// Initialize services
	snapshotRepo := repositories.NewFileSnapshotRepository(cfg.Cache.FilePath, appLogger)
	healthSource := services.NewHealthSource(cfg.Health.Command, cfg.Health.Timeout, appLogger)
	outputParser := services.NewOutputParser(appLogger)
	geoService := services.NewGeoLocationService(cfg.Geo.APIURL, cfg.Geo.APIToken, cfg.Geo.Timeout, appLogger)
	nodeMonitor := services.NewNodeMonitor(healthSource, outputParser, geoService, appLogger)
	coordinator := services.NewRefreshCoordinator(nodeMonitor, snapshotRepo, appLogger)

	// Initialize scheduler
	cronScheduler := scheduler.NewCronScheduler(coordinator, cfg.Refresh.Schedule, cfg.Refresh.JobTimeout, appLogger)
	cronScheduler.Start()
	defer cronScheduler.Stop()

	// Initialize HTTP handlers
	nodeHandler := handlers.NewNodeHandler(coordinator, appLogger, version)

	// Setup Gin router
	if cfg.Logger.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(appLogger))
	router.Use(middleware.Recovery(appLogger))
	router.Use(middleware.Security())

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window, appLogger)
	router.Use(rateLimiter.Middleware())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	router.Use(func(ctx *gin.Context) {
		c.HandlerFunc(ctx.Writer, ctx.Request)
		ctx.Next()
	})

	// Routes
	router.GET("/", nodeHandler.GetServiceInfo)
	router.GET("/health", nodeHandler.GetHealth)
	router.GET("/nodes", nodeHandler.GetNodes)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Start server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		appLogger.WithField("addr", serverAddr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	appLogger.Info("Server exited")
}
