// Package app assembles the sync engine, the storefront read path and the
// HTTP API from configuration.
package app

import (
	"fmt"

	"storesync/internal/api"
	"storesync/internal/api/handlers"
	"storesync/internal/catalogsync"
	"storesync/internal/config"
	"storesync/internal/database"
	"storesync/internal/logger"
	"storesync/internal/repository"
	"storesync/internal/services/catalog"
	"storesync/internal/storefront"
	"storesync/internal/task"
	"storesync/internal/worker"
	"storesync/internal/worker/processors"

	gormlogger "gorm.io/gorm/logger"
)

type App struct {
	DB        *database.Database
	Sync      *catalogsync.Orchestrator
	Catalog   *storefront.Catalog
	Events    *processors.EventProcessor
	Publisher *worker.Publisher
	Server    *api.Server
	Task      *task.CatalogSyncTask
}

// Build opens the database and wires every component. The caller owns
// starting the server and the scheduled task, and must call Close.
func Build(cfg *config.Config, log *logger.Logger) (*App, error) {
	db, err := database.New(cfg.DatabaseURL, gormLogLevel(cfg))
	if err != nil {
		return nil, err
	}

	client := catalog.NewClient(catalog.Config{
		BaseURL: cfg.CatalogAPIURL,
		Token:   cfg.CatalogAPIToken,
		StoreID: cfg.CatalogStoreID,
		Timeout: cfg.CatalogTimeout,
		Retrier: catalog.Retrier{
			Retries:   cfg.CatalogRetries,
			BaseDelay: cfg.CatalogRetryDelay,
		},
	}, log)

	products := repository.NewProductRepository(db.DB)
	categories := repository.NewCategoryRepository(db.DB)

	orchestrator := catalogsync.NewOrchestrator(catalogsync.Deps{
		Client:     client,
		Categories: categories,
		Products:   products,
		SyncLogs:   repository.NewSyncLogRepository(db.DB),
		Leases:     repository.NewLeaseRepository(db.DB),
		Logger:     log,
	}, catalogsync.Options{
		PageSize: cfg.SyncPageSize,
		LeaseTTL: cfg.SyncLeaseTTL,
	})

	storefrontCatalog := storefront.NewCatalog(products, categories, cfg.CacheTTL, nil)
	events := processors.NewEventProcessor(orchestrator, log, storefrontCatalog.Invalidate)

	a := &App{
		DB:      db,
		Sync:    orchestrator,
		Catalog: storefrontCatalog,
		Events:  events,
		Task:    task.NewCatalogSyncTask(orchestrator, cfg.SyncSchedule, log, storefrontCatalog.Invalidate),
	}

	svc := api.Services{
		Sync:    orchestrator,
		Catalog: storefrontCatalog,
		Events:  events,
	}
	if cfg.WebhookAsync {
		if len(cfg.KafkaBrokers) == 0 {
			db.Close()
			return nil, fmt.Errorf("WEBHOOK_ASYNC requires KAFKA_BROKERS")
		}
		a.Publisher = worker.NewPublisher(cfg)
		svc.Publisher = handlers.EventPublisher(a.Publisher)
	}

	a.Server = api.New(cfg, log, svc)
	return a, nil
}

func (a *App) Close() error {
	if a.Publisher != nil {
		a.Publisher.Close()
	}
	return a.DB.Close()
}

func gormLogLevel(cfg *config.Config) gormlogger.LogLevel {
	if cfg.IsProduction() {
		return gormlogger.Warn
	}
	return gormlogger.Info
}
