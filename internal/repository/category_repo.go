package repository

import (
	"context"

	"storesync/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository stores the mirrored category forest.
type CategoryRepository interface {
	GetByRemoteID(ctx context.Context, remoteID int64) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	List(ctx context.Context) ([]models.Category, error)
	Count(ctx context.Context) (int64, error)
}

type categoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) GetByRemoteID(ctx context.Context, remoteID int64) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("remote_id = ?", remoteID).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepo) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *categoryRepo) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}
