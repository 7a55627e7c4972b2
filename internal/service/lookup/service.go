// Package lookup implements term lookup against a built dictionary store.
package lookup

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/jmdict-store/internal/domain"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryRepo interface {
	FindByReading(ctx context.Context, text string) ([]domain.Entry, error)
	FindByKanjiForm(ctx context.Context, text string) ([]domain.Entry, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements the lookup business logic. All lookups are exact-match
// after term normalization; an unknown term yields an empty result, never
// an error.
type Service struct {
	log     *slog.Logger
	entries entryRepo
}

// NewService creates a new Lookup service.
func NewService(logger *slog.Logger, entries entryRepo) *Service {
	return &Service{
		log:     logger.With("service", "lookup"),
		entries: entries,
	}
}
