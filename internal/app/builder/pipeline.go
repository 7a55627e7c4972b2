package builder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/jmdict-store/internal/config"
	"github.com/heartmarshall/jmdict-store/internal/domain"
	"github.com/heartmarshall/jmdict-store/internal/jmdict"
)

// Result holds the outcome of a completed build. Rejected lists every
// entry excluded from the store, with its raw sequence id and the reason.
type Result struct {
	BuildID  uuid.UUID
	Source   string
	Seen     int
	Loaded   int
	Rejected []jmdict.RejectedEntry
	Duration time.Duration
}

// Pipeline orchestrates one store build: truncate, stream entries from the
// parser in batches, record provenance. Everything runs inside a single
// transaction, so a failed build leaves the previous population untouched.
type Pipeline struct {
	log     *slog.Logger
	entries EntryBulkRepo
	builds  BuildInfoRepo
	tx      TxManager
	cfg     config.BuildConfig
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, entries EntryBulkRepo, builds BuildInfoRepo, tx TxManager, cfg config.BuildConfig) *Pipeline {
	return &Pipeline{
		log:     log,
		entries: entries,
		builds:  builds,
		tx:      tx,
		cfg:     cfg,
	}
}

// Run builds the store from the document in source. sourceName is recorded
// in the provenance row and is informational only.
//
// Entries that fail validation are skipped and counted; a malformed
// document aborts the whole build with a *jmdict.SourceFormatError in the
// chain.
func (p *Pipeline) Run(ctx context.Context, source io.Reader, sourceName string) (*Result, error) {
	started := time.Now()

	batchSize := p.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 500
	}

	parser := jmdict.NewParser(source, p.cfg.GlossLang)

	var (
		loaded  int
		buildID = uuid.New()
	)

	err := p.tx.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, err := p.entries.DeleteAll(txCtx)
		if err != nil {
			return fmt.Errorf("truncate store: %w", err)
		}
		p.log.Info("store truncated", slog.Int64("deleted", deleted))

		batch := make([]domain.Entry, 0, batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			n, err := p.entries.BulkInsertEntries(txCtx, batch)
			if err != nil {
				return fmt.Errorf("insert batch: %w", err)
			}
			loaded += n
			batch = batch[:0]
			return nil
		}

		for {
			entry, err := parser.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return fmt.Errorf("parse %s: %w", sourceName, err)
			}
			batch = append(batch, entry)
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		if err := flush(); err != nil {
			return err
		}

		stats := parser.Stats()
		for _, rej := range stats.Rejected {
			p.log.Warn("entry rejected",
				slog.String("seq", rej.RawSeq),
				slog.String("reason", rej.Reason.Error()),
			)
		}

		info := domain.BuildInfo{
			ID:              buildID,
			Source:          sourceName,
			EntriesLoaded:   loaded,
			EntriesRejected: len(stats.Rejected),
			StartedAt:       started,
			FinishedAt:      time.Now(),
		}
		if err := p.builds.RecordBuild(txCtx, info); err != nil {
			return fmt.Errorf("record build: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stats := parser.Stats()
	result := &Result{
		BuildID:  buildID,
		Source:   sourceName,
		Seen:     stats.EntriesSeen,
		Loaded:   loaded,
		Rejected: stats.Rejected,
		Duration: time.Since(started),
	}

	p.log.Info("build completed",
		slog.String("build_id", buildID.String()),
		slog.Int("seen", result.Seen),
		slog.Int("loaded", result.Loaded),
		slog.Int("rejected", len(result.Rejected)),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}
