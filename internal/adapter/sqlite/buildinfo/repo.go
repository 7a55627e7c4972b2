// Package buildinfo implements the build provenance repository using SQLite.
// It provides append-only bookkeeping for store rebuilds: one row per
// successful build, written in the same transaction as the population.
package buildinfo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite"
	"github.com/heartmarshall/jmdict-store/internal/domain"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Repo provides build provenance persistence backed by SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a new build info repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// RecordBuild inserts a provenance row for a finished build. Callers run it
// inside the rebuild transaction so the row commits together with the
// population it describes.
func (r *Repo) RecordBuild(ctx context.Context, info domain.BuildInfo) error {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	query, args, err := qb.Insert("build_info").
		Columns("id", "source", "entries_loaded", "entries_rejected", "started_at", "finished_at").
		Values(info.ID.String(), info.Source, info.EntriesLoaded, info.EntriesRejected, info.StartedAt, info.FinishedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build build_info insert: %w", err)
	}

	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return sqlite.MapError(err, "build_info", info.ID.String())
	}
	return nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

type buildRow struct {
	ID              string    `db:"id"`
	Source          string    `db:"source"`
	EntriesLoaded   int       `db:"entries_loaded"`
	EntriesRejected int       `db:"entries_rejected"`
	StartedAt       time.Time `db:"started_at"`
	FinishedAt      time.Time `db:"finished_at"`
}

// LatestBuild returns the provenance row of the most recent build, or
// domain.ErrNotFound when the store has never been built.
func (r *Repo) LatestBuild(ctx context.Context) (*domain.BuildInfo, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	query, args, err := qb.Select("id", "source", "entries_loaded", "entries_rejected", "started_at", "finished_at").
		From("build_info").
		OrderBy("finished_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build build_info select: %w", err)
	}

	var row buildRow
	if err := sqlscan.Get(ctx, q, &row, query, args...); err != nil {
		return nil, sqlite.MapError(err, "build_info", "latest")
	}

	return toDomainBuildInfo(row)
}

// ---------------------------------------------------------------------------
// Mapping helpers
// ---------------------------------------------------------------------------

func toDomainBuildInfo(row buildRow) (*domain.BuildInfo, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("build_info %s: parse id: %w", row.ID, err)
	}

	return &domain.BuildInfo{
		ID:              id,
		Source:          row.Source,
		EntriesLoaded:   row.EntriesLoaded,
		EntriesRejected: row.EntriesRejected,
		StartedAt:       row.StartedAt,
		FinishedAt:      row.FinishedAt,
	}, nil
}
