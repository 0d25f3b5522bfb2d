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
	"storesync/internal/services/catalog"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProductSyncer syncs single products with their variants and owns the
// lifecycle operations driven by webhooks.
type ProductSyncer struct {
	client      CatalogClient
	products    repository.ProductRepository
	categories  repository.CategoryRepository
	transformer *catalog.Transformer
	logger      *logger.Logger
	now         func() time.Time
}

func NewProductSyncer(client CatalogClient, products repository.ProductRepository, categories repository.CategoryRepository, logger *logger.Logger) *ProductSyncer {
	return &ProductSyncer{
		client:      client,
		products:    products,
		categories:  categories,
		transformer: catalog.NewTransformer(),
		logger:      logger,
		now:         utcNow,
	}
}

// SyncProductDetail fetches one product with its variants and upserts both.
// The returned counts cover the product row only. On error nothing is
// counted, although rows written before the failure stay written.
func (s *ProductSyncer) SyncProductDetail(ctx context.Context, remoteID string) (Counts, error) {
	detail, err := s.client.GetProduct(ctx, remoteID)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to fetch product %s: %w", remoteID, err)
	}
	if detail.Product.ID == 0 && detail.Product.Name == "" {
		return Counts{}, fmt.Errorf("product %s: empty response", remoteID)
	}

	product, counts, err := s.upsertProduct(ctx, detail.Product, remoteID)
	if err != nil {
		return Counts{}, err
	}

	for _, v := range detail.Variants {
		if err := s.upsertVariant(ctx, product.ID, v); err != nil {
			return Counts{}, fmt.Errorf("product %s: %w", product.RemoteID, err)
		}
	}

	s.attachCategory(ctx, product, detail.Variants)

	return counts, nil
}

func (s *ProductSyncer) upsertProduct(ctx context.Context, remote catalog.SyncProduct, requestedID string) (*models.Product, Counts, error) {
	fields := s.transformer.TransformProduct(remote)
	if remote.ID == 0 {
		fields.RemoteID = requestedID
	}
	now := s.now()

	existing, err := s.products.GetByRemoteID(ctx, fields.RemoteID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		fields.SyncedAt = &now
		if err := s.products.Create(ctx, fields); err != nil {
			return nil, Counts{}, fmt.Errorf("failed to create product %s: %w", fields.RemoteID, err)
		}
		metrics.SyncedEntities.WithLabelValues("product", "added").Inc()
		return fields, Counts{Added: 1}, nil

	case err != nil:
		return nil, Counts{}, fmt.Errorf("failed to look up product %s: %w", fields.RemoteID, err)
	}

	err = s.products.UpdateFields(ctx, existing.ID, map[string]interface{}{
		"name":          fields.Name,
		"thumbnail_url": fields.ThumbnailURL,
		"external_id":   fields.ExternalID,
		"is_active":     fields.IsActive,
		"synced_at":     now,
	})
	if err != nil {
		return nil, Counts{}, fmt.Errorf("failed to update product %s: %w", fields.RemoteID, err)
	}
	metrics.SyncedEntities.WithLabelValues("product", "updated").Inc()

	existing.Name = fields.Name
	existing.ThumbnailURL = fields.ThumbnailURL
	existing.ExternalID = fields.ExternalID
	existing.IsActive = fields.IsActive
	existing.SyncedAt = &now
	return existing, Counts{Updated: 1}, nil
}

func (s *ProductSyncer) upsertVariant(ctx context.Context, productID string, remote catalog.SyncVariant) error {
	vf := s.transformer.TransformVariant(remote, remote.Product.Image)

	existing, err := s.products.GetVariantByRemoteID(ctx, vf.RemoteVariantID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		variant := &models.Variant{
			ProductID:       productID,
			RemoteVariantID: vf.RemoteVariantID,
			ExternalID:      vf.ExternalID,
			Name:            vf.Name,
			Size:            vf.Size,
			Color:           vf.Color,
			RetailPrice:     vf.RetailPrice,
			Currency:        vf.Currency,
			PreviewURL:      vf.PreviewURL,
			Files:           datatypes.JSONSlice[models.VariantFile](vf.Files),
			Options:         datatypes.JSONSlice[models.VariantOption](vf.Options),
			InStock:         vf.InStock,
		}
		if err := s.products.CreateVariant(ctx, variant); err != nil {
			return fmt.Errorf("failed to create variant %d: %w", vf.RemoteVariantID, err)
		}
		metrics.SyncedEntities.WithLabelValues("variant", "added").Inc()
		return nil

	case err != nil:
		return fmt.Errorf("failed to look up variant %d: %w", vf.RemoteVariantID, err)
	}

	fields := map[string]interface{}{
		"product_id":   productID,
		"external_id":  vf.ExternalID,
		"name":         vf.Name,
		"retail_price": vf.RetailPrice,
		"currency":     vf.Currency,
		"preview_url":  vf.PreviewURL,
		"files":        datatypes.JSONSlice[models.VariantFile](vf.Files),
		"options":      datatypes.JSONSlice[models.VariantOption](vf.Options),
		"in_stock":     vf.InStock,
	}
	// A variant whose options no longer name a size or color keeps the
	// stored value.
	if vf.Size != nil {
		fields["size"] = *vf.Size
	}
	if vf.Color != nil {
		fields["color"] = *vf.Color
	}

	if err := s.products.UpdateVariantFields(ctx, existing.ID, fields); err != nil {
		return fmt.Errorf("failed to update variant %d: %w", vf.RemoteVariantID, err)
	}
	metrics.SyncedEntities.WithLabelValues("variant", "updated").Inc()
	return nil
}

// attachCategory links the product to the main category of the catalog
// product behind its first variant. Failures are logged and swallowed.
func (s *ProductSyncer) attachCategory(ctx context.Context, product *models.Product, variants []catalog.SyncVariant) {
	if len(variants) == 0 {
		return
	}
	catalogID := variants[0].Product.ProductID
	if catalogID == 0 {
		s.logger.Debug("Product %s has no catalog product reference, skipping category", product.RemoteID)
		return
	}

	cp, err := s.client.GetCatalogProduct(ctx, catalogID)
	if err != nil {
		s.logger.Warn("Failed to resolve category for product %s: %v", product.RemoteID, err)
		return
	}
	if cp.MainCategoryID == 0 {
		return
	}

	category, err := s.categories.GetByRemoteID(ctx, cp.MainCategoryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Debug("Category %d for product %s is not synced yet", cp.MainCategoryID, product.RemoteID)
		return
	}
	if err != nil {
		s.logger.Warn("Failed to look up category %d: %v", cp.MainCategoryID, err)
		return
	}

	created, err := s.products.EnsureCategoryLink(ctx, product.ID, category.ID)
	if err != nil {
		s.logger.Warn("Failed to link product %s to category %d: %v", product.RemoteID, category.RemoteID, err)
		return
	}
	if created {
		s.logger.Debug("Linked product %s to category %s", product.RemoteID, category.Name)
	}
}

// DeactivateProduct marks a product inactive. Variants and category links
// are kept. It reports whether a product with that remote id exists.
func (s *ProductSyncer) DeactivateProduct(ctx context.Context, remoteID string) (bool, error) {
	found, err := s.products.Deactivate(ctx, remoteID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate product %s: %w", remoteID, err)
	}
	if !found {
		s.logger.Debug("Deactivate: product %s not found", remoteID)
		return false, nil
	}
	metrics.SyncedEntities.WithLabelValues("product", "deactivated").Inc()
	s.logger.Info("Product %s deactivated", remoteID)
	return true, nil
}

// UpdateVariantStock sets a variant's stock flag. It reports whether a
// variant with that remote id exists.
func (s *ProductSyncer) UpdateVariantStock(ctx context.Context, remoteVariantID int64, inStock bool) (bool, error) {
	found, err := s.products.UpdateVariantStock(ctx, remoteVariantID, inStock)
	if err != nil {
		return false, fmt.Errorf("failed to update stock for variant %d: %w", remoteVariantID, err)
	}
	if !found {
		s.logger.Debug("Stock update: variant %d not found", remoteVariantID)
		return false, nil
	}
	metrics.SyncedEntities.WithLabelValues("variant", "stock_updated").Inc()
	return true, nil
}
