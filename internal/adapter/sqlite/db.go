// Package sqlite provides the SQLite persistence layer shared by the entity
// repositories in its subpackages: connection setup, schema migrations,
// context-scoped transactions and driver-to-domain error mapping.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/jmdict-store/internal/config"
	"github.com/heartmarshall/jmdict-store/migrations"
)

// Open opens the SQLite database at cfg.Path, creating the file if absent.
// It applies the connection pragmas (foreign keys on, WAL journal, busy
// timeout), pings the database for fail-fast validation, and brings the
// schema up to date via the embedded migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=%d",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// WAL allows concurrent readers alongside the single writer; the busy
	// timeout covers writer contention between pooled connections.
	db.SetMaxOpenConns(cfg.MaxOpenConns)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate applies any pending schema migrations from the embedded filesystem.
// Running it against an up-to-date database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	return nil
}

// Reset removes the database file at path together with its WAL sidecar
// files. Missing files are not an error, so Reset on a fresh path succeeds.
func Reset(path string) error {
	for _, p := range []string{path, path + "-wal", path + "-shm"} {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", p, err)
		}
	}
	return nil
}
