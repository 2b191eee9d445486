// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/school-news-site/internal/config"
	"github.com/school-news-site/internal/database"
)

// Config returns a sqlite configuration pointing into a per-test directory
func Config(t testing.TB) *config.DatabaseConfig {
	t.Helper()
	return &config.DatabaseConfig{
		Driver:      config.DriverSQLite,
		Path:        filepath.Join(t.TempDir(), "news_site_test.db"),
		BusyTimeout: 5 * time.Second,
	}
}

// New opens and migrates a fresh database that is closed when the test ends
func New(t testing.TB) *database.DB {
	t.Helper()
	return Open(t, Config(t))
}

// Open opens and migrates the database at cfg, closing it when the test ends.
// Opening the same cfg twice simulates a restart.
func Open(t testing.TB, cfg *config.DatabaseConfig) *database.DB {
	t.Helper()

	db, err := database.New(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
