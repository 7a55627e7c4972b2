package lookup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/jmdict-store/internal/domain"
)

// ---------------------------------------------------------------------------
// 1. FindByReading
// ---------------------------------------------------------------------------

// FindByReading returns every entry whose reading exactly matches the
// normalized term, ordered by sequence id.
func (s *Service) FindByReading(ctx context.Context, term string) ([]domain.Entry, error) {
	normalized := domain.NormalizeTerm(term)
	if normalized == "" {
		return []domain.Entry{}, nil
	}

	entries, err := s.entries.FindByReading(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("find by reading: %w", err)
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// 2. FindByKanjiForm
// ---------------------------------------------------------------------------

// FindByKanjiForm returns every entry with an exactly matching kanji form,
// ordered by sequence id.
func (s *Service) FindByKanjiForm(ctx context.Context, term string) ([]domain.Entry, error) {
	normalized := domain.NormalizeTerm(term)
	if normalized == "" {
		return []domain.Entry{}, nil
	}

	entries, err := s.entries.FindByKanjiForm(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("find by kanji form: %w", err)
	}
	return entries, nil
}

// ---------------------------------------------------------------------------
// 3. Search
// ---------------------------------------------------------------------------

// Search routes a term to the right index: terms containing at least one
// kanji go through the kanji-form lookup, everything else through the
// reading lookup. The routing is a first-try heuristic; callers wanting
// both indexes query them explicitly.
func (s *Service) Search(ctx context.Context, term string) ([]domain.Entry, error) {
	normalized := domain.NormalizeTerm(term)
	if normalized == "" {
		return []domain.Entry{}, nil
	}

	if domain.ContainsKanji(normalized) {
		s.log.Debug("routing search", slog.String("term", normalized), slog.String("index", "kanji_form"))
		return s.FindByKanjiForm(ctx, normalized)
	}

	s.log.Debug("routing search", slog.String("term", normalized), slog.String("index", "reading"))
	return s.FindByReading(ctx, normalized)
}
