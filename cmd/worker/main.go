package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"storesync/internal/app"
	"storesync/internal/config"
	"storesync/internal/logger"
	"storesync/internal/worker"
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

	if len(cfg.KafkaBrokers) == 0 {
		logger.Fatal("KAFKA_BROKERS must be set for the worker")
	}

	// The worker only consumes, so it never publishes back to Kafka.
	cfg.WebhookAsync = false
	a, err := app.Build(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize application: %v", err)
	}
	defer a.Close()

	// Initialize worker
	w := worker.New(cfg, logger, a.Events)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	// Start worker
	logger.Info("Starting worker...")
	go func() {
		w.Start(ctx)
		close(done)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down worker...")
	cancel()
	<-done
	w.Stop()
}
