package repository

import (
	"context"
	"errors"
	"time"

	"storesync/internal/models"

	"gorm.io/gorm"
)

// ErrLogFinalized is returned when a sync log already left the pending state.
var ErrLogFinalized = errors.New("sync log already finalized")

// SyncLogRepository is the append/update-only audit store of sync runs.
// Logs are never deleted.
type SyncLogRepository interface {
	Create(ctx context.Context, log *models.SyncLog) error
	Finalize(ctx context.Context, id string, result SyncLogResult) error
	GetByID(ctx context.Context, id string) (*models.SyncLog, error)
	Recent(ctx context.Context, limit int) ([]models.SyncLog, error)
}

// SyncLogResult is the terminal state written to a pending log.
type SyncLogResult struct {
	Status          models.SyncLogStatus
	ProductsAdded   int
	ProductsUpdated int
	ErrorMessage    *string
	CompletedAt     time.Time
}

type syncLogRepo struct {
	db *gorm.DB
}

func NewSyncLogRepository(db *gorm.DB) SyncLogRepository {
	return &syncLogRepo{db: db}
}

func (r *syncLogRepo) Create(ctx context.Context, log *models.SyncLog) error {
	if log.Status == "" {
		log.Status = models.SyncStatusPending
	}
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *syncLogRepo) Finalize(ctx context.Context, id string, result SyncLogResult) error {
	res := r.db.WithContext(ctx).
		Model(&models.SyncLog{}).
		Where("id = ? AND status = ?", id, models.SyncStatusPending).
		Updates(map[string]interface{}{
			"status":           result.Status,
			"products_added":   result.ProductsAdded,
			"products_updated": result.ProductsUpdated,
			"error_message":    result.ErrorMessage,
			"completed_at":     result.CompletedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLogFinalized
	}
	return nil
}

func (r *syncLogRepo) GetByID(ctx context.Context, id string) (*models.SyncLog, error) {
	var log models.SyncLog
	if err := r.db.WithContext(ctx).First(&log, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *syncLogRepo) Recent(ctx context.Context, limit int) ([]models.SyncLog, error) {
	var logs []models.SyncLog
	err := r.db.WithContext(ctx).
		Order("started_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
