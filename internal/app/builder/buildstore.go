package builder

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite"
	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite/buildinfo"
	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite/entry"
	"github.com/heartmarshall/jmdict-store/internal/config"
	"github.com/heartmarshall/jmdict-store/internal/jmdict"
)

// BuildStore builds a dictionary store at destination from the JMdict
// document at source, with default build settings. Programmatic equivalent
// of running cmd/jmdict-build; the store file and its schema are created
// when missing.
func BuildStore(ctx context.Context, log *slog.Logger, source, destination string) (*Result, error) {
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	db, err := sqlite.Open(ctx, config.DatabaseConfig{
		Path:         destination,
		BusyTimeout:  5 * time.Second,
		MaxOpenConns: 4,
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer db.Close()

	pipeline := NewPipeline(
		log,
		entry.New(db),
		buildinfo.New(db),
		sqlite.NewTxManager(db),
		config.BuildConfig{BatchSize: 500, GlossLang: jmdict.DefaultGlossLang},
	)

	return pipeline.Run(ctx, f, source)
}
