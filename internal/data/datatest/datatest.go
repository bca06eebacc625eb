// Package datatest provides a migrated throwaway database for tests.
package datatest

import (
	"path/filepath"
	"testing"

	"go-blog-cms/internal/config"
	"go-blog-cms/internal/data"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// New opens a fresh SQLite database in a temporary directory and applies all
// migrations to it. The database is closed when the test ends.
func New(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "blog.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	db, err := data.NewDB(config.DBConfig{Driver: config.DriverSQLite, DSN: dsn})
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { db.Close() })

	require.NoError(t, data.ApplyMigrations(db, config.DriverSQLite), "failed to migrate test database")
	return db
}
