package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/sqlscan"
	"github.com/mattn/go-sqlite3"

	"github.com/heartmarshall/jmdict-store/internal/domain"
)

// MapError converts driver errors to domain errors. The entity name and key
// identify the affected row in the wrapped message.
// context.DeadlineExceeded and context.Canceled are NOT mapped, they pass through.
func MapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}

	// sql.ErrNoRows → domain.ErrNotFound. scany reports a missing row with
	// its own sentinel, so both are checked.
	if errors.Is(err, sql.ErrNoRows) || sqlscan.NotFound(err) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}

	// sqlite3 extended result codes
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrAlreadyExists)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrValidation)
		}
	}

	// Everything else: wrap with context
	return fmt.Errorf("%s %s: %w", entity, key, err)
}
