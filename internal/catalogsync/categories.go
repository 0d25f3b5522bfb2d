package catalogsync

import (
	"context"
	"errors"
	"fmt"

	"storesync/internal/logger"
	"storesync/internal/metrics"
	"storesync/internal/models"
	"storesync/internal/repository"

	"gorm.io/gorm"
)

// CategorySyncer mirrors the remote category list.
type CategorySyncer struct {
	client CatalogClient
	repo   repository.CategoryRepository
	logger *logger.Logger
}

func NewCategorySyncer(client CatalogClient, repo repository.CategoryRepository, logger *logger.Logger) *CategorySyncer {
	return &CategorySyncer{client: client, repo: repo, logger: logger}
}

// SyncCategories fetches the whole remote list in one call and upserts each
// category by remote id. Categories are never deleted locally.
func (s *CategorySyncer) SyncCategories(ctx context.Context) (Counts, error) {
	remote, err := s.client.ListCategories(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to fetch categories: %w", err)
	}

	var counts Counts
	for _, rc := range remote {
		existing, err := s.repo.GetByRemoteID(ctx, rc.ID)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			category := &models.Category{
				RemoteID:       rc.ID,
				ParentRemoteID: rc.Parent(),
				Name:           rc.Title,
				ImageURL:       rc.ImageURL,
			}
			if err := s.repo.Create(ctx, category); err != nil {
				return counts, fmt.Errorf("failed to create category %d: %w", rc.ID, err)
			}
			counts.Added++
			metrics.SyncedEntities.WithLabelValues("category", "added").Inc()

		case err != nil:
			return counts, fmt.Errorf("failed to look up category %d: %w", rc.ID, err)

		default:
			err := s.repo.UpdateFields(ctx, existing.ID, map[string]interface{}{
				"name":             rc.Title,
				"image_url":        rc.ImageURL,
				"parent_remote_id": rc.Parent(),
			})
			if err != nil {
				return counts, fmt.Errorf("failed to update category %d: %w", rc.ID, err)
			}
			counts.Updated++
			metrics.SyncedEntities.WithLabelValues("category", "updated").Inc()
		}
	}

	s.logger.Debug("Categories synced: %d added, %d updated", counts.Added, counts.Updated)
	return counts, nil
}
