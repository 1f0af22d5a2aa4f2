package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/storyforge-app/backend/internal/router"
	"github.com/storyforge-app/backend/pkg/cache"
	"github.com/storyforge-app/backend/pkg/config"
	"github.com/storyforge-app/backend/pkg/logger"
	"github.com/storyforge-app/backend/validators"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if err := logger.Init(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.L.Sync() //nolint:errcheck

	// Initialize database connection
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.S.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)
	logger.S.Info("Connected to PostgreSQL")

	// Redis is optional; the cache degrades to a no-op without it
	c := cache.New(cfg)
	if c.Enabled() {
		logger.S.Info("Connected to Redis")
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, cfg)
	if err := router.SetupRoutes(e, db, c, cfg); err != nil {
		logger.S.Fatalf("Failed to set up routes: %v", err)
	}

	// Start server with graceful shutdown
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.S.Fatalf("Server error: %v", err)
		}
	}()
	logger.S.Infof("StoryForge API listening on :%s", cfg.Port)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.S.Errorf("Server shutdown: %v", err)
	}
	logger.S.Info("Server stopped")
}
