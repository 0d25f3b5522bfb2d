package repository

import (
	"context"
	"testing"
	"time"

	"storesync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncLogRepo_CreateAndFinalize(t *testing.T) {
	repo := NewSyncLogRepository(setupTestDB(t))
	ctx := context.Background()

	log := &models.SyncLog{Type: models.SyncTypeManual, StartedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, log))
	assert.NotEmpty(t, log.ID)
	assert.Equal(t, models.SyncStatusPending, log.Status)

	msg := "boom"
	err := repo.Finalize(ctx, log.ID, SyncLogResult{
		Status:          models.SyncStatusFailed,
		ProductsAdded:   6,
		ProductsUpdated: 0,
		ErrorMessage:    &msg,
		CompletedAt:     time.Now().UTC(),
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusFailed, got.Status)
	assert.Equal(t, 6, got.ProductsAdded)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "boom", *got.ErrorMessage)
	assert.NotNil(t, got.CompletedAt)
}

func TestSyncLogRepo_FinalizeOnlyOnce(t *testing.T) {
	repo := NewSyncLogRepository(setupTestDB(t))
	ctx := context.Background()

	log := &models.SyncLog{Type: models.SyncTypeWebhook, StartedAt: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, log))

	done := SyncLogResult{Status: models.SyncStatusSuccess, ProductsAdded: 1, CompletedAt: time.Now().UTC()}
	require.NoError(t, repo.Finalize(ctx, log.ID, done))

	again := SyncLogResult{Status: models.SyncStatusFailed, CompletedAt: time.Now().UTC()}
	assert.ErrorIs(t, repo.Finalize(ctx, log.ID, again), ErrLogFinalized)

	got, err := repo.GetByID(ctx, log.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusSuccess, got.Status)
	assert.Nil(t, got.ErrorMessage)
}

func TestSyncLogRepo_RecentNewestFirst(t *testing.T) {
	repo := NewSyncLogRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &models.SyncLog{
			Type:      models.SyncTypeScheduled,
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	logs, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.True(t, logs[0].StartedAt.Equal(base.Add(4*time.Hour)))
	assert.True(t, logs[2].StartedAt.Equal(base.Add(2*time.Hour)))
}
