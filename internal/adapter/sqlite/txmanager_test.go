package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite"
	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite/testhelper"
)

// entryExists checks whether an entry row with the given seq id exists.
func entryExists(t *testing.T, db *sql.DB, seqID int64) bool {
	t.Helper()
	var exists bool
	err := db.QueryRowContext(
		context.Background(),
		`SELECT EXISTS(SELECT 1 FROM entries WHERE seq_id = ?)`,
		seqID,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("entryExists query: %v", err)
	}
	return exists
}

func TestRunInTx_Commit(t *testing.T) {
	db := testhelper.NewTestDB(t)
	tm := sqlite.NewTxManager(db)

	const seqID = 1001001

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := sqlite.QuerierFromCtx(ctx, db)
		_, err := q.ExecContext(ctx, `INSERT INTO entries (seq_id) VALUES (?)`, seqID)
		return err
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	if !entryExists(t, db, seqID) {
		t.Fatal("expected entry to exist after committed transaction")
	}
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	db := testhelper.NewTestDB(t)
	tm := sqlite.NewTxManager(db)

	const seqID = 1001002
	sentinel := errors.New("business logic error")

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := sqlite.QuerierFromCtx(ctx, db)
		if _, execErr := q.ExecContext(ctx, `INSERT INTO entries (seq_id) VALUES (?)`, seqID); execErr != nil {
			t.Fatalf("insert inside tx failed: %v", execErr)
		}
		return sentinel
	})

	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got: %v", err)
	}

	if entryExists(t, db, seqID) {
		t.Fatal("expected entry NOT to exist after rolled-back transaction")
	}
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	db := testhelper.NewTestDB(t)
	tm := sqlite.NewTxManager(db)

	const seqID = 1001003

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic to be re-raised")
		}
		if r != "test panic" {
			t.Fatalf("expected panic value %q, got %v", "test panic", r)
		}

		// Verify data was rolled back.
		if entryExists(t, db, seqID) {
			t.Fatal("expected entry NOT to exist after panic-rolled-back transaction")
		}
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := sqlite.QuerierFromCtx(ctx, db)
		if _, err := q.ExecContext(ctx, `INSERT INTO entries (seq_id) VALUES (?)`, seqID); err != nil {
			t.Fatalf("insert inside tx failed: %v", err)
		}
		panic("test panic")
	})
}

func TestRunInTx_QuerierFromCtx_UsesTx(t *testing.T) {
	db := testhelper.NewTestDB(t)
	tm := sqlite.NewTxManager(db)

	const seqID = 1001004

	// Insert inside a transaction, then verify it's visible within the same tx.
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		q := sqlite.QuerierFromCtx(ctx, db)
		if _, err := q.ExecContext(ctx, `INSERT INTO entries (seq_id) VALUES (?)`, seqID); err != nil {
			return err
		}

		// Should be visible within the transaction.
		var exists bool
		if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM entries WHERE seq_id = ?)`, seqID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			t.Fatal("expected entry to be visible within the transaction")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RunInTx returned error: %v", err)
	}

	// After commit, also visible outside.
	if !entryExists(t, db, seqID) {
		t.Fatal("expected entry to exist after committed transaction")
	}
}
