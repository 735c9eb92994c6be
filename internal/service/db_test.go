package service

import (
	"testing"

	"sales-kpi/internal/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	cfg := config.Default()
	cfg.Database = config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"}
	db, err := cfg.OpenGormDB()
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
