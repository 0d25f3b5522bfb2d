package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "SYNC_PAGE_SIZE", "SYNC_SCHEDULE", "CATALOG_RETRIES", "KAFKA_BROKERS", "WEBHOOK_ASYNC", "CACHE_TTL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite://storesync.db", cfg.DatabaseURL)
	assert.Equal(t, 100, cfg.SyncPageSize)
	assert.Equal(t, "0 0 3 * * *", cfg.SyncSchedule)
	assert.Equal(t, 3, cfg.CatalogRetries)
	assert.Equal(t, time.Second, cfg.CatalogRetryDelay)
	assert.Equal(t, 2*time.Hour, cfg.SyncLeaseTTL)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.WebhookAsync)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("WEBHOOK_ASYNC", "true")
	t.Setenv("CATALOG_RETRY_DELAY", "250ms")
	t.Setenv("SYNC_PAGE_SIZE", "not-a-number")
	t.Setenv("ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.WebhookAsync)
	assert.Equal(t, 250*time.Millisecond, cfg.CatalogRetryDelay)
	assert.Equal(t, 100, cfg.SyncPageSize)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_EmptyScheduleDisablesSync(t *testing.T) {
	t.Setenv("SYNC_SCHEDULE", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.SyncSchedule)
}
