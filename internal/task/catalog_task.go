package task

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storesync/internal/catalogsync"
	"storesync/internal/logger"
	"storesync/internal/models"

	"github.com/robfig/cron/v3"
)

// FullSyncer runs a full catalog sync.
type FullSyncer interface {
	SyncProducts(ctx context.Context, syncType models.SyncType) (*catalogsync.Result, error)
}

// CatalogSyncTask runs the full sync on a cron schedule with seconds.
type CatalogSyncTask struct {
	syncer    FullSyncer
	logger    *logger.Logger
	schedule  string
	onSuccess func()
	cron      *cron.Cron
}

func NewCatalogSyncTask(syncer FullSyncer, schedule string, logger *logger.Logger, onSuccess func()) *CatalogSyncTask {
	return &CatalogSyncTask{
		syncer:    syncer,
		logger:    logger,
		schedule:  schedule,
		onSuccess: onSuccess,
		cron:      cron.New(cron.WithSeconds()),
	}
}

// Start registers the job and starts the scheduler. An empty schedule
// disables the task.
func (t *CatalogSyncTask) Start() error {
	if t.schedule == "" {
		t.logger.Info("[CatalogSyncTask] no schedule configured, scheduled sync disabled")
		return nil
	}

	if _, err := t.cron.AddFunc(t.schedule, t.runOnce); err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", t.schedule, err)
	}
	t.cron.Start()
	t.logger.Info("[CatalogSyncTask] started with schedule %s", t.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (t *CatalogSyncTask) Stop() {
	ctx := t.cron.Stop()
	<-ctx.Done()
	t.logger.Info("[CatalogSyncTask] stopped")
}

// Scheduled runs have no deadline.
func (t *CatalogSyncTask) runOnce() {
	t.Run(context.Background())
}

// Run performs one scheduled sync. A run rejected because another full sync
// holds the lease is not an error.
func (t *CatalogSyncTask) Run(ctx context.Context) {
	start := time.Now()
	result, err := t.syncer.SyncProducts(ctx, models.SyncTypeScheduled)
	switch {
	case errors.Is(err, catalogsync.ErrSyncInProgress):
		t.logger.Info("[CatalogSyncTask] skipped: another full sync is running")
	case err != nil:
		t.logger.Error("[CatalogSyncTask] scheduled sync failed after %s: %v", time.Since(start).Round(time.Second), err)
	default:
		t.logger.Info("[CatalogSyncTask] scheduled sync done in %s: %d added, %d updated, %d total",
			time.Since(start).Round(time.Second), result.ProductsAdded, result.ProductsUpdated, result.TotalProducts)
		if t.onSuccess != nil {
			t.onSuccess()
		}
	}
}
