// Package builder defines interfaces and orchestration for the store build
// pipeline: it streams a JMdict document through the parser and replaces
// the store population in a single transaction.
package builder

import (
	"context"

	"github.com/heartmarshall/jmdict-store/internal/domain"
)

// EntryBulkRepo defines the batch repository contract consumed by the build
// pipeline. All methods use only domain types, no adapter imports.
// Implemented by entry.Repo.
type EntryBulkRepo interface {
	// DeleteAll removes every entry; child rows cascade.
	DeleteAll(ctx context.Context) (int64, error)

	// BulkInsertEntries inserts entries with their full trees.
	BulkInsertEntries(ctx context.Context, entries []domain.Entry) (int, error)
}

// BuildInfoRepo records build provenance alongside the population it
// describes. Implemented by buildinfo.Repo.
type BuildInfoRepo interface {
	RecordBuild(ctx context.Context, info domain.BuildInfo) error
}

// TxManager runs a function inside a single database transaction.
// Implemented by sqlite.TxManager.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
