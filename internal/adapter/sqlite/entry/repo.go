// Package entry implements the dictionary store repository using SQLite.
// It manages six tables (entries + five child tables) as a single aggregate.
// The store is immutable between rebuilds: no row-level update or delete
// operations are exposed, a rebuild replaces the whole population.
package entry

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite"
	"github.com/heartmarshall/jmdict-store/internal/domain"
)

// qb builds queries with ? placeholders for SQLite.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Repo provides dictionary store persistence backed by SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a new dictionary store repository.
func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// FindByReading returns all entries that have a reading exactly equal to text,
// each with its full tree (readings, kanji forms, senses with glosses and
// parts of speech). No matches yields an empty slice, not an error.
func (r *Repo) FindByReading(ctx context.Context, text string) ([]domain.Entry, error) {
	return r.findByForm(ctx, "readings", text)
}

// FindByKanjiForm returns all entries that have a kanji form exactly equal to
// text, each with its full tree. No matches yields an empty slice, not an error.
func (r *Repo) FindByKanjiForm(ctx context.Context, text string) ([]domain.Entry, error) {
	return r.findByForm(ctx, "kanji_forms", text)
}

// findByForm resolves matching seq ids through the indexed text column of the
// given child table, then hydrates the full trees. Exact match only.
func (r *Repo) findByForm(ctx context.Context, table, text string) ([]domain.Entry, error) {
	if text == "" {
		return []domain.Entry{}, nil
	}

	q := sqlite.QuerierFromCtx(ctx, r.db)

	query, args, err := qb.
		Select("DISTINCT seq_id").
		From(table).
		Where(sq.Eq{"text": text}).
		OrderBy("seq_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s lookup: %w", table, err)
	}

	var seqIDs []int64
	if err := sqlscan.Select(ctx, q, &seqIDs, query, args...); err != nil {
		return nil, fmt.Errorf("lookup %s %q: %w", table, text, err)
	}
	if len(seqIDs) == 0 {
		return []domain.Entry{}, nil
	}

	return r.loadFullTrees(ctx, q, seqIDs)
}

// GetBySeq returns a single entry with its full tree.
// Returns domain.ErrNotFound if no entry has the given seq id.
func (r *Repo) GetBySeq(ctx context.Context, seqID int64) (*domain.Entry, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	query, args, err := qb.
		Select("seq_id").
		From("entries").
		Where(sq.Eq{"seq_id": seqID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build entry lookup: %w", err)
	}

	var found int64
	if err := sqlscan.Get(ctx, q, &found, query, args...); err != nil {
		return nil, sqlite.MapError(err, "entry", strconv.FormatInt(seqID, 10))
	}

	entries, err := r.loadFullTrees(ctx, q, []int64{found})
	if err != nil {
		return nil, err
	}

	return &entries[0], nil
}

// CountEntries returns the number of entries in the store.
func (r *Repo) CountEntries(ctx context.Context) (int64, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	var n int64
	if err := sqlscan.Get(ctx, q, &n, `SELECT COUNT(*) FROM entries`); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}

	return n, nil
}

// ---------------------------------------------------------------------------
// Internal: batched tree hydration
// ---------------------------------------------------------------------------

// Row shapes for sqlscan. The senses table is the only child with a surrogate
// id, needed to key its own glosses and parts of speech.
type readingRow struct {
	SeqID    int64  `db:"seq_id"`
	Text     string `db:"text"`
	Position int    `db:"position"`
}

type kanjiFormRow struct {
	SeqID    int64  `db:"seq_id"`
	Text     string `db:"text"`
	Position int    `db:"position"`
}

type senseRow struct {
	ID       int64 `db:"id"`
	SeqID    int64 `db:"seq_id"`
	Position int   `db:"position"`
}

type glossRow struct {
	SenseID  int64  `db:"sense_id"`
	Text     string `db:"text"`
	Lang     string `db:"lang"`
	Position int    `db:"position"`
}

type partOfSpeechRow struct {
	SenseID  int64  `db:"sense_id"`
	Tag      string `db:"tag"`
	Position int    `db:"position"`
}

// loadFullTrees reconstructs fully hydrated entries for the given seq ids.
// Child rows are fetched in one batched query per table (never one query per
// entry per table) and every child collection is re-sorted by position in
// memory, since row-return order is not guaranteed by the storage layer.
// Either every tree is assembled or the call fails; there are no partial results.
func (r *Repo) loadFullTrees(ctx context.Context, q sqlite.Querier, seqIDs []int64) ([]domain.Entry, error) {
	// Readings for all matched entries.
	var readingRows []readingRow
	query, args, err := qb.
		Select("seq_id", "text", "position").
		From("readings").
		Where(sq.Eq{"seq_id": seqIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build readings query: %w", err)
	}
	if err := sqlscan.Select(ctx, q, &readingRows, query, args...); err != nil {
		return nil, fmt.Errorf("load readings: %w", err)
	}

	readingsBySeq := make(map[int64][]domain.Reading, len(seqIDs))
	for _, row := range readingRows {
		readingsBySeq[row.SeqID] = append(readingsBySeq[row.SeqID], domain.Reading{
			SeqID:    row.SeqID,
			Text:     row.Text,
			Position: row.Position,
		})
	}

	// Kanji forms for all matched entries.
	var kanjiRows []kanjiFormRow
	query, args, err = qb.
		Select("seq_id", "text", "position").
		From("kanji_forms").
		Where(sq.Eq{"seq_id": seqIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build kanji_forms query: %w", err)
	}
	if err := sqlscan.Select(ctx, q, &kanjiRows, query, args...); err != nil {
		return nil, fmt.Errorf("load kanji_forms: %w", err)
	}

	kanjiBySeq := make(map[int64][]domain.KanjiForm, len(seqIDs))
	for _, row := range kanjiRows {
		kanjiBySeq[row.SeqID] = append(kanjiBySeq[row.SeqID], domain.KanjiForm{
			SeqID:    row.SeqID,
			Text:     row.Text,
			Position: row.Position,
		})
	}

	// Senses, then their glosses and parts of speech keyed by sense id.
	var senseRows []senseRow
	query, args, err = qb.
		Select("id", "seq_id", "position").
		From("senses").
		Where(sq.Eq{"seq_id": seqIDs}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build senses query: %w", err)
	}
	if err := sqlscan.Select(ctx, q, &senseRows, query, args...); err != nil {
		return nil, fmt.Errorf("load senses: %w", err)
	}

	glossesBySense := make(map[int64][]domain.Gloss)
	posBySense := make(map[int64][]domain.PartOfSpeech)

	if len(senseRows) > 0 {
		senseIDs := make([]int64, len(senseRows))
		for i, s := range senseRows {
			senseIDs[i] = s.ID
		}

		var glossRows []glossRow
		query, args, err = qb.
			Select("sense_id", "text", "lang", "position").
			From("glosses").
			Where(sq.Eq{"sense_id": senseIDs}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build glosses query: %w", err)
		}
		if err := sqlscan.Select(ctx, q, &glossRows, query, args...); err != nil {
			return nil, fmt.Errorf("load glosses: %w", err)
		}
		for _, row := range glossRows {
			glossesBySense[row.SenseID] = append(glossesBySense[row.SenseID], domain.Gloss{
				SenseID:  row.SenseID,
				Text:     row.Text,
				Lang:     row.Lang,
				Position: row.Position,
			})
		}

		var posRows []partOfSpeechRow
		query, args, err = qb.
			Select("sense_id", "tag", "position").
			From("parts_of_speech").
			Where(sq.Eq{"sense_id": senseIDs}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build parts_of_speech query: %w", err)
		}
		if err := sqlscan.Select(ctx, q, &posRows, query, args...); err != nil {
			return nil, fmt.Errorf("load parts_of_speech: %w", err)
		}
		for _, row := range posRows {
			posBySense[row.SenseID] = append(posBySense[row.SenseID], domain.PartOfSpeech{
				SenseID:  row.SenseID,
				Tag:      row.Tag,
				Position: row.Position,
			})
		}
	}

	sensesBySeq := make(map[int64][]domain.Sense, len(seqIDs))
	for _, row := range senseRows {
		s := domain.Sense{
			ID:       row.ID,
			SeqID:    row.SeqID,
			Position: row.Position,
		}
		if gs, ok := glossesBySense[row.ID]; ok {
			s.Glosses = gs
		} else {
			s.Glosses = []domain.Gloss{}
		}
		if ps, ok := posBySense[row.ID]; ok {
			s.PartsOfSpeech = ps
		} else {
			s.PartsOfSpeech = []domain.PartOfSpeech{}
		}
		sensesBySeq[row.SeqID] = append(sensesBySeq[row.SeqID], s)
	}

	// Assemble in seq id order.
	entries := make([]domain.Entry, len(seqIDs))
	for i, id := range seqIDs {
		e := domain.Entry{SeqID: id}

		if rs, ok := readingsBySeq[id]; ok {
			e.Readings = rs
		} else {
			e.Readings = []domain.Reading{}
		}
		if ks, ok := kanjiBySeq[id]; ok {
			e.KanjiForms = ks
		} else {
			e.KanjiForms = []domain.KanjiForm{}
		}
		if ss, ok := sensesBySeq[id]; ok {
			e.Senses = ss
		} else {
			e.Senses = []domain.Sense{}
		}

		sortTree(&e)
		entries[i] = e
	}

	return entries, nil
}

// sortTree re-sorts every child collection by position ascending, restoring
// source document order.
func sortTree(e *domain.Entry) {
	sort.Slice(e.Readings, func(i, j int) bool { return e.Readings[i].Position < e.Readings[j].Position })
	sort.Slice(e.KanjiForms, func(i, j int) bool { return e.KanjiForms[i].Position < e.KanjiForms[j].Position })
	sort.Slice(e.Senses, func(i, j int) bool { return e.Senses[i].Position < e.Senses[j].Position })

	for si := range e.Senses {
		s := &e.Senses[si]
		sort.Slice(s.Glosses, func(i, j int) bool { return s.Glosses[i].Position < s.Glosses[j].Position })
		sort.Slice(s.PartsOfSpeech, func(i, j int) bool { return s.PartsOfSpeech[i].Position < s.PartsOfSpeech[j].Position })
	}
}
