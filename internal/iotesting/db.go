// Package iotesting provides shared helpers for tests that need a
// real database. Tests run against an in-memory SQLite database with
// the full schema migrated, so they exercise the same GORM code paths
// as the PostgreSQL deployment without requiring a server.
package iotesting

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/paleolimbot/strativerse/pkg/schema"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// NewDB opens a fresh in-memory database with the full schema
// migrated. Each call gets an isolated database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache DSN keeps the database alive across the
	// connections in GORM's pool; the counter isolates tests.
	n := atomic.AddInt64(&dbCounter, 1)
	dsn := fmt.Sprintf("file:strativerse_test_%d?mode=memory&cache=shared", n)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, schema.Migrate(db))

	return db
}
