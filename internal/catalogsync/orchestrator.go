package catalogsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storesync/internal/logger"
	"storesync/internal/metrics"
	"storesync/internal/models"
	"storesync/internal/repository"

	"github.com/google/uuid"
)

const (
	// LeaseName identifies the full-sync lease row.
	LeaseName = "sync:running"

	DefaultPageSize = 100
	DefaultLeaseTTL = 2 * time.Hour
)

var (
	// ErrSyncInProgress is returned when another full sync holds the lease.
	ErrSyncInProgress = errors.New("a full sync is already running")

	ErrInvalidSyncType = errors.New("invalid sync type")
)

// Result summarizes one sync run.
type Result struct {
	Success         bool   `json:"success"`
	SyncLogID       string `json:"sync_log_id"`
	ProductsAdded   int    `json:"products_added"`
	ProductsUpdated int    `json:"products_updated"`
	TotalProducts   int    `json:"total_products"`
	Error           string `json:"error,omitempty"`
}

// Deps are the collaborators of an Orchestrator.
type Deps struct {
	Client     CatalogClient
	Categories repository.CategoryRepository
	Products   repository.ProductRepository
	SyncLogs   repository.SyncLogRepository
	Leases     repository.LeaseRepository
	Logger     *logger.Logger
}

type Options struct {
	PageSize int
	LeaseTTL time.Duration
	// Clock defaults to the current UTC time.
	Clock func() time.Time
}

// Orchestrator runs full and single-product syncs and records each run in
// the sync log.
type Orchestrator struct {
	client     CatalogClient
	categories *CategorySyncer
	products   *ProductSyncer
	logs       repository.SyncLogRepository
	leases     repository.LeaseRepository
	logger     *logger.Logger
	pageSize   int
	leaseTTL   time.Duration
	now        func() time.Time
}

func NewOrchestrator(deps Deps, opts Options) *Orchestrator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = DefaultLeaseTTL
	}
	if opts.Clock == nil {
		opts.Clock = utcNow
	}

	products := NewProductSyncer(deps.Client, deps.Products, deps.Categories, deps.Logger)
	products.now = opts.Clock

	return &Orchestrator{
		client:     deps.Client,
		categories: NewCategorySyncer(deps.Client, deps.Categories, deps.Logger),
		products:   products,
		logs:       deps.SyncLogs,
		leases:     deps.Leases,
		logger:     deps.Logger,
		pageSize:   opts.PageSize,
		leaseTTL:   opts.LeaseTTL,
		now:        opts.Clock,
	}
}

// DeactivateProduct marks a product inactive without deleting it.
func (o *Orchestrator) DeactivateProduct(ctx context.Context, remoteID string) (bool, error) {
	return o.products.DeactivateProduct(ctx, remoteID)
}

func (o *Orchestrator) UpdateVariantStock(ctx context.Context, remoteVariantID int64, inStock bool) (bool, error) {
	return o.products.UpdateVariantStock(ctx, remoteVariantID, inStock)
}

// SyncCategories syncs the category list without writing a sync log.
func (o *Orchestrator) SyncCategories(ctx context.Context) (Counts, error) {
	return o.categories.SyncCategories(ctx)
}

// SyncProducts runs a full sync: categories first, then every remote product
// page by page. A category failure is logged and the run continues. The
// first product failure ends the run as failed, keeping the counts of the
// products synced before it.
//
// Only one full sync runs at a time. A concurrent call returns
// ErrSyncInProgress and writes no log.
func (o *Orchestrator) SyncProducts(ctx context.Context, syncType models.SyncType) (*Result, error) {
	if !syncType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSyncType, syncType)
	}

	holder := uuid.NewString()
	if err := o.leases.Acquire(ctx, LeaseName, holder, o.leaseTTL, o.now()); err != nil {
		if errors.Is(err, repository.ErrLeaseHeld) {
			metrics.SyncRejected.Inc()
			o.logger.Warn("Rejected %s sync: another full sync is running", syncType)
			return nil, ErrSyncInProgress
		}
		return nil, fmt.Errorf("failed to acquire sync lease: %w", err)
	}
	defer func() {
		if err := o.leases.Release(context.WithoutCancel(ctx), LeaseName, holder); err != nil {
			o.logger.Error("Failed to release sync lease: %v", err)
		}
	}()

	run, err := o.startLog(ctx, syncType)
	if err != nil {
		return nil, err
	}
	o.logger.Info("Starting %s sync %s", syncType, run.ID)

	if counts, err := o.categories.SyncCategories(ctx); err != nil {
		o.logger.Error("Category sync failed, continuing with products: %v", err)
	} else {
		o.logger.Info("Categories synced: %d added, %d updated", counts.Added, counts.Updated)
	}

	var counts Counts
	total, err := o.syncAllProducts(ctx, &counts)
	return o.finish(ctx, run, counts, total, err)
}

func (o *Orchestrator) syncAllProducts(ctx context.Context, counts *Counts) (int, error) {
	offset, total := 0, 0
	for {
		page, err := o.client.ListProducts(ctx, offset, o.pageSize)
		if err != nil {
			return total, fmt.Errorf("failed to fetch products at offset %d: %w", offset, err)
		}
		total = page.Paging.Total
		if len(page.Products) == 0 {
			return total, nil
		}

		for _, summary := range page.Products {
			c, err := o.products.SyncProductDetail(ctx, summary.RemoteID())
			if err != nil {
				return total, err
			}
			counts.Add(c)
		}
		o.logger.Debug("Synced products %d-%d of %d", offset+1, offset+len(page.Products), total)

		offset += o.pageSize
		if offset >= total {
			return total, nil
		}
	}
}

// SyncProductByID syncs one product outside of pagination. It does not take
// the full-sync lease.
func (o *Orchestrator) SyncProductByID(ctx context.Context, remoteID string, syncType models.SyncType) (*Result, error) {
	if !syncType.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSyncType, syncType)
	}

	run, err := o.startLog(ctx, syncType)
	if err != nil {
		return nil, err
	}
	o.logger.Info("Starting %s sync %s for product %s", syncType, run.ID, remoteID)

	counts, err := o.products.SyncProductDetail(ctx, remoteID)
	total := 1
	if err != nil {
		total = 0
	}
	return o.finish(ctx, run, counts, total, err)
}

// RecentLogs returns the newest sync logs first.
func (o *Orchestrator) RecentLogs(ctx context.Context, limit int) ([]models.SyncLog, error) {
	return o.logs.Recent(ctx, limit)
}

func (o *Orchestrator) startLog(ctx context.Context, syncType models.SyncType) (*models.SyncLog, error) {
	run := &models.SyncLog{
		Type:      syncType,
		Status:    models.SyncStatusPending,
		StartedAt: o.now(),
	}
	if err := o.logs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create sync log: %w", err)
	}
	return run, nil
}

func (o *Orchestrator) finish(ctx context.Context, run *models.SyncLog, counts Counts, total int, runErr error) (*Result, error) {
	completed := o.now()
	final := repository.SyncLogResult{
		Status:          models.SyncStatusSuccess,
		ProductsAdded:   counts.Added,
		ProductsUpdated: counts.Updated,
		CompletedAt:     completed,
	}
	if runErr != nil {
		msg := runErr.Error()
		final.Status = models.SyncStatusFailed
		final.ErrorMessage = &msg
	}

	if err := o.logs.Finalize(context.WithoutCancel(ctx), run.ID, final); err != nil {
		o.logger.Error("Failed to finalize sync log %s: %v", run.ID, err)
		if runErr == nil {
			runErr = fmt.Errorf("failed to finalize sync log: %w", err)
		}
	}

	metrics.SyncRuns.WithLabelValues(string(run.Type), string(final.Status)).Inc()
	metrics.SyncDuration.WithLabelValues(string(run.Type)).Observe(completed.Sub(run.StartedAt).Seconds())

	result := &Result{
		Success:         runErr == nil,
		SyncLogID:       run.ID,
		ProductsAdded:   counts.Added,
		ProductsUpdated: counts.Updated,
		TotalProducts:   total,
	}
	if runErr != nil {
		result.Error = runErr.Error()
		o.logger.Error("Sync %s failed after %d added, %d updated: %v", run.ID, counts.Added, counts.Updated, runErr)
		return result, runErr
	}

	o.logger.Info("Sync %s completed: %d added, %d updated, %d total", run.ID, counts.Added, counts.Updated, total)
	return result, nil
}
