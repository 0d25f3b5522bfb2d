// Package handler is the serverless entry point. It builds the application
// once per instance and serves every request through the API router.
package handler

import (
	"fmt"
	"net/http"
	"sync"

	"storesync/internal/app"
	"storesync/internal/config"
	"storesync/internal/logger"
)

var (
	once     sync.Once
	instance *app.App
	initErr  error
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	// Webhooks are processed inline; there is no worker beside a function.
	cfg.WebhookAsync = false

	instance, initErr = app.Build(cfg, logger.New(cfg.LogLevel))
}

// Handler is the main entry point for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		http.Error(w, fmt.Sprintf("Initialization failed: %v", initErr), http.StatusInternalServerError)
		return
	}
	instance.Server.GetRouter().ServeHTTP(w, r)
}
