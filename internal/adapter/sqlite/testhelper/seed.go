package testhelper

import (
	"context"
	"database/sql"
	"testing"

	"github.com/heartmarshall/jmdict-store/internal/domain"
)

// SeedEntry inserts the given entry and its full tree with raw SQL, bypassing
// the repositories under test. Positions are taken from the structs as-is.
func SeedEntry(t *testing.T, db *sql.DB, e domain.Entry) {
	t.Helper()
	ctx := context.Background()

	if _, err := db.ExecContext(ctx,
		`INSERT INTO entries (seq_id) VALUES (?)`,
		e.SeqID,
	); err != nil {
		t.Fatalf("testhelper: SeedEntry insert entry %d: %v", e.SeqID, err)
	}

	for i, r := range e.Readings {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO readings (seq_id, text, position) VALUES (?, ?, ?)`,
			e.SeqID, r.Text, r.Position,
		); err != nil {
			t.Fatalf("testhelper: SeedEntry insert reading[%d]: %v", i, err)
		}
	}

	for i, k := range e.KanjiForms {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO kanji_forms (seq_id, text, position) VALUES (?, ?, ?)`,
			e.SeqID, k.Text, k.Position,
		); err != nil {
			t.Fatalf("testhelper: SeedEntry insert kanji_form[%d]: %v", i, err)
		}
	}

	for i, s := range e.Senses {
		res, err := db.ExecContext(ctx,
			`INSERT INTO senses (seq_id, position) VALUES (?, ?)`,
			e.SeqID, s.Position,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedEntry insert sense[%d]: %v", i, err)
		}
		senseID, err := res.LastInsertId()
		if err != nil {
			t.Fatalf("testhelper: SeedEntry sense[%d] last insert id: %v", i, err)
		}

		for j, g := range s.Glosses {
			lang := g.Lang
			if lang == "" {
				lang = "eng"
			}
			if _, err := db.ExecContext(ctx,
				`INSERT INTO glosses (sense_id, text, lang, position) VALUES (?, ?, ?, ?)`,
				senseID, g.Text, lang, g.Position,
			); err != nil {
				t.Fatalf("testhelper: SeedEntry insert gloss[%d][%d]: %v", i, j, err)
			}
		}

		for j, p := range s.PartsOfSpeech {
			if _, err := db.ExecContext(ctx,
				`INSERT INTO parts_of_speech (sense_id, tag, position) VALUES (?, ?, ?)`,
				senseID, p.Tag, p.Position,
			); err != nil {
				t.Fatalf("testhelper: SeedEntry insert part_of_speech[%d][%d]: %v", i, j, err)
			}
		}
	}
}

// CountRows returns the number of rows in the given table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	if err := db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM `+table,
	).Scan(&n); err != nil {
		t.Fatalf("testhelper: count rows in %s: %v", table, err)
	}
	return n
}
