package repository

import (
	"testing"

	"storesync/internal/database"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.New("sqlite://:memory:", gormlogger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.DB
}
