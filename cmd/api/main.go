package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storesync/internal/app"
	"storesync/internal/config"
	"storesync/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	var logOpts []logger.Option
	if !cfg.IsProduction() {
		logOpts = append(logOpts, logger.WithConsole())
	}
	logger := logger.New(cfg.LogLevel, logOpts...)
	defer logger.Sync()

	if cfg.SyncSecret == "" {
		logger.Warn("SYNC_SECRET is empty, sync endpoints will reject every request")
	}

	// Initialize database and services
	a, err := app.Build(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application: %v", err)
	}
	defer a.Close()

	// Scheduled sync
	if err := a.Task.Start(); err != nil {
		logger.Fatal("Failed to start scheduled sync: %v", err)
	}

	// Start server
	go func() {
		logger.Info("Starting API server on port " + cfg.APIPort)
		if err := a.Server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := a.Server.Stop(ctx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
	a.Task.Stop()
}
