package repository

import (
	"context"

	"storesync/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository stores mirrored products together with the variants and
// category links they own.
type ProductRepository interface {
	// Products
	GetByRemoteID(ctx context.Context, remoteID string) (*models.Product, error)
	GetWithVariants(ctx context.Context, remoteID string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
	Deactivate(ctx context.Context, remoteID string) (bool, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)

	// Variants
	GetVariantByRemoteID(ctx context.Context, remoteVariantID int64) (*models.Variant, error)
	CreateVariant(ctx context.Context, variant *models.Variant) error
	UpdateVariantFields(ctx context.Context, id string, fields map[string]interface{}) error
	UpdateVariantStock(ctx context.Context, remoteVariantID int64, inStock bool) (bool, error)

	// Category links
	EnsureCategoryLink(ctx context.Context, productID, categoryID string) (bool, error)
	CategoryLinks(ctx context.Context, productID string) ([]models.ProductCategory, error)
}

// ProductFilter narrows List. Inactive products are excluded unless
// IncludeInactive is set.
type ProductFilter struct {
	CategoryRemoteID *int64
	IncludeInactive  bool
	Page             int
	PageSize         int
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) GetByRemoteID(ctx context.Context, remoteID string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("remote_id = ?", remoteID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) GetWithVariants(ctx context.Context, remoteID string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("remote_variant_id ASC")
		}).
		Where("remote_id = ?", remoteID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

func (r *productRepo) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *productRepo) Deactivate(ctx context.Context, remoteID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("remote_id = ?", remoteID).
		Update("is_active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{})

	if !filter.IncludeInactive {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.CategoryRemoteID != nil {
		query = query.
			Joins("JOIN product_categories ON product_categories.product_id = products.id").
			Joins("JOIN categories ON categories.id = product_categories.category_id").
			Where("categories.remote_id = ?", *filter.CategoryRemoteID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.
		Order("products.name ASC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (r *productRepo) GetVariantByRemoteID(ctx context.Context, remoteVariantID int64) (*models.Variant, error) {
	var variant models.Variant
	err := r.db.WithContext(ctx).
		Where("remote_variant_id = ?", remoteVariantID).
		First(&variant).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *productRepo) CreateVariant(ctx context.Context, variant *models.Variant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *productRepo) UpdateVariantFields(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *productRepo) UpdateVariantStock(ctx context.Context, remoteVariantID int64, inStock bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Variant{}).
		Where("remote_variant_id = ?", remoteVariantID).
		Update("in_stock", inStock)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// EnsureCategoryLink inserts the (product, category) pair unless it exists.
// It reports whether a row was created.
func (r *productRepo) EnsureCategoryLink(ctx context.Context, productID, categoryID string) (bool, error) {
	var existing int64
	err := r.db.WithContext(ctx).
		Model(&models.ProductCategory{}).
		Where("product_id = ? AND category_id = ?", productID, categoryID).
		Count(&existing).Error
	if err != nil {
		return false, err
	}
	if existing > 0 {
		return false, nil
	}

	// A concurrent run may have inserted the pair since the check.
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProductCategory{ProductID: productID, CategoryID: categoryID})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *productRepo) CategoryLinks(ctx context.Context, productID string) ([]models.ProductCategory, error) {
	var links []models.ProductCategory
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Find(&links).Error
	return links, err
}
