package repository

import (
	"context"
	"errors"
	"time"

	"storesync/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrLeaseHeld is returned by Acquire while another holder owns a live lease.
var ErrLeaseHeld = errors.New("lease is held by another run")

// LeaseRepository implements a store-backed single-flight marker. Expired
// leases are taken over so a crashed holder cannot block forever.
type LeaseRepository interface {
	Acquire(ctx context.Context, name, holder string, ttl time.Duration, at time.Time) error
	Release(ctx context.Context, name, holder string) error
	Get(ctx context.Context, name string) (*models.SyncLease, error)
}

type leaseRepo struct {
	db *gorm.DB
}

func NewLeaseRepository(db *gorm.DB) LeaseRepository {
	return &leaseRepo{db: db}
}

func (r *leaseRepo) Acquire(ctx context.Context, name, holder string, ttl time.Duration, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("name = ? AND expires_at <= ?", name, at).
			Delete(&models.SyncLease{}).Error; err != nil {
			return err
		}

		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.SyncLease{
			Name:       name,
			Holder:     holder,
			AcquiredAt: at,
			ExpiresAt:  at.Add(ttl),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLeaseHeld
		}
		return nil
	})
}

func (r *leaseRepo) Release(ctx context.Context, name, holder string) error {
	return r.db.WithContext(ctx).
		Where("name = ? AND holder = ?", name, holder).
		Delete(&models.SyncLease{}).Error
}

func (r *leaseRepo) Get(ctx context.Context, name string) (*models.SyncLease, error) {
	var lease models.SyncLease
	if err := r.db.WithContext(ctx).First(&lease, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &lease, nil
}
