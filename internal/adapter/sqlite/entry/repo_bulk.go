package entry

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite"
	"github.com/heartmarshall/jmdict-store/internal/domain"
)

// ---------------------------------------------------------------------------
// Bulk write methods (store build)
// ---------------------------------------------------------------------------

// senseKey identifies a sense within a batch before its surrogate id exists.
type senseKey struct {
	seqID    int64
	position int
}

// DeleteAll removes every entry; child rows go with them via ON DELETE
// CASCADE. Returns the number of deleted entries.
func (r *Repo) DeleteAll(ctx context.Context) (int64, error) {
	q := sqlite.QuerierFromCtx(ctx, r.db)

	res, err := q.ExecContext(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("delete all entries: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all entries rows affected: %w", err)
	}

	return n, nil
}

// BulkInsertEntries inserts entries and their full trees using one multi-row
// statement per table. Callers are expected to run it inside RunInTx so a
// failed batch never leaves a partial population behind.
// Returns the number of inserted entries.
func (r *Repo) BulkInsertEntries(ctx context.Context, entries []domain.Entry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	q := sqlite.QuerierFromCtx(ctx, r.db)

	if err := r.insertEntryRows(ctx, q, entries); err != nil {
		return 0, err
	}
	if err := r.insertReadings(ctx, q, entries); err != nil {
		return 0, err
	}
	if err := r.insertKanjiForms(ctx, q, entries); err != nil {
		return 0, err
	}

	senseIDs, err := r.insertSenses(ctx, q, entries)
	if err != nil {
		return 0, err
	}
	if err := r.insertGlosses(ctx, q, entries, senseIDs); err != nil {
		return 0, err
	}
	if err := r.insertPartsOfSpeech(ctx, q, entries, senseIDs); err != nil {
		return 0, err
	}

	return len(entries), nil
}

func (r *Repo) insertEntryRows(ctx context.Context, q sqlite.Querier, entries []domain.Entry) error {
	ins := qb.Insert("entries").Columns("seq_id")
	for _, e := range entries {
		ins = ins.Values(e.SeqID)
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build entries insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return sqlite.MapError(err, "entries", "batch")
	}
	return nil
}

func (r *Repo) insertReadings(ctx context.Context, q sqlite.Querier, entries []domain.Entry) error {
	ins := qb.Insert("readings").Columns("seq_id", "text", "position")
	rows := 0
	for _, e := range entries {
		for _, rd := range e.Readings {
			ins = ins.Values(e.SeqID, rd.Text, rd.Position)
			rows++
		}
	}
	if rows == 0 {
		return nil
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build readings insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return sqlite.MapError(err, "readings", "batch")
	}
	return nil
}

func (r *Repo) insertKanjiForms(ctx context.Context, q sqlite.Querier, entries []domain.Entry) error {
	ins := qb.Insert("kanji_forms").Columns("seq_id", "text", "position")
	rows := 0
	for _, e := range entries {
		for _, k := range e.KanjiForms {
			ins = ins.Values(e.SeqID, k.Text, k.Position)
			rows++
		}
	}
	if rows == 0 {
		return nil
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build kanji_forms insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return sqlite.MapError(err, "kanji_forms", "batch")
	}
	return nil
}

// insertSenses inserts every sense in the batch and returns the generated
// surrogate ids keyed by (seq_id, position). RETURNING row order is not
// guaranteed, which is why the key round-trips through the statement.
func (r *Repo) insertSenses(ctx context.Context, q sqlite.Querier, entries []domain.Entry) (map[senseKey]int64, error) {
	ins := qb.Insert("senses").Columns("seq_id", "position").Suffix("RETURNING id, seq_id, position")
	rows := 0
	for _, e := range entries {
		for _, s := range e.Senses {
			ins = ins.Values(e.SeqID, s.Position)
			rows++
		}
	}

	ids := make(map[senseKey]int64, rows)
	if rows == 0 {
		return ids, nil
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build senses insert: %w", err)
	}

	var inserted []senseRow
	if err := sqlscan.Select(ctx, q, &inserted, query, args...); err != nil {
		return nil, sqlite.MapError(err, "senses", "batch")
	}

	for _, row := range inserted {
		ids[senseKey{seqID: row.SeqID, position: row.Position}] = row.ID
	}

	return ids, nil
}

func (r *Repo) insertGlosses(ctx context.Context, q sqlite.Querier, entries []domain.Entry, senseIDs map[senseKey]int64) error {
	ins := qb.Insert("glosses").Columns("sense_id", "text", "lang", "position")
	rows := 0
	for _, e := range entries {
		for _, s := range e.Senses {
			id, ok := senseIDs[senseKey{seqID: e.SeqID, position: s.Position}]
			if !ok {
				return fmt.Errorf("no sense id for entry %d sense %d", e.SeqID, s.Position)
			}
			for _, g := range s.Glosses {
				ins = ins.Values(id, g.Text, g.Lang, g.Position)
				rows++
			}
		}
	}
	if rows == 0 {
		return nil
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build glosses insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return sqlite.MapError(err, "glosses", "batch")
	}
	return nil
}

func (r *Repo) insertPartsOfSpeech(ctx context.Context, q sqlite.Querier, entries []domain.Entry, senseIDs map[senseKey]int64) error {
	ins := qb.Insert("parts_of_speech").Columns("sense_id", "tag", "position")
	rows := 0
	for _, e := range entries {
		for _, s := range e.Senses {
			id, ok := senseIDs[senseKey{seqID: e.SeqID, position: s.Position}]
			if !ok {
				return fmt.Errorf("no sense id for entry %d sense %d", e.SeqID, s.Position)
			}
			for _, p := range s.PartsOfSpeech {
				ins = ins.Values(id, p.Tag, p.Position)
				rows++
			}
		}
	}
	if rows == 0 {
		return nil
	}

	query, args, err := ins.ToSql()
	if err != nil {
		return fmt.Errorf("build parts_of_speech insert: %w", err)
	}
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return sqlite.MapError(err, "parts_of_speech", "batch")
	}
	return nil
}
