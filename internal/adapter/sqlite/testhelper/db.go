// Package testhelper provides shared test infrastructure for the SQLite
// adapter packages: per-test databases and raw-SQL fixture seeding.
package testhelper

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite"
	"github.com/heartmarshall/jmdict-store/internal/config"
)

// NewTestDB creates a fresh SQLite database in a per-test temp directory and
// applies the embedded migrations. The handle is closed via t.Cleanup; the
// file disappears together with the temp directory.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := config.DatabaseConfig{
		Path:         filepath.Join(t.TempDir(), "jmdict_test.db"),
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
	}

	db, err := sqlite.Open(ctx, cfg)
	if err != nil {
		t.Fatalf("testhelper: open test database: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}
