// Command jmdict-build builds a dictionary store from a JMdict XML document.
// The store population is replaced in a single transaction, so a failed
// build leaves the previous store untouched.
//
// Flags:
//
//	-source  path to the JMdict XML document (required)
//	-db      store file path (overrides config)
//	-reset   delete the store file and its WAL siblings before building
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite"
	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite/buildinfo"
	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite/entry"
	"github.com/heartmarshall/jmdict-store/internal/app"
	"github.com/heartmarshall/jmdict-store/internal/app/builder"
	"github.com/heartmarshall/jmdict-store/internal/config"
)

// Compile-time interface assertions.
var (
	_ builder.EntryBulkRepo = (*entry.Repo)(nil)
	_ builder.BuildInfoRepo = (*buildinfo.Repo)(nil)
	_ builder.TxManager     = (*sqlite.TxManager)(nil)
)

func main() {
	sourceFlag := flag.String("source", "", "path to the JMdict XML document")
	dbFlag := flag.String("db", "", "store file path (overrides config)")
	resetFlag := flag.Bool("reset", false, "delete the store file before building")
	flag.Parse()

	if *sourceFlag == "" {
		fmt.Fprintln(os.Stderr, "Usage: jmdict-build -source JMdict.xml [-db jmdict.db] [-reset]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *dbFlag != "" {
		cfg.Database.Path = *dbFlag
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting build",
		slog.String("version", app.BuildVersion()),
		slog.String("source", *sourceFlag),
		slog.String("db", cfg.Database.Path),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if *resetFlag {
		if err := sqlite.Reset(cfg.Database.Path); err != nil {
			logger.Error("reset store", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("store file removed", slog.String("db", cfg.Database.Path))
	}

	source, err := os.Open(*sourceFlag)
	if err != nil {
		logger.Error("open source", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer source.Close()

	db, err := sqlite.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	pipeline := builder.NewPipeline(
		logger,
		entry.New(db),
		buildinfo.New(db),
		sqlite.NewTxManager(db),
		cfg.Build,
	)

	result, err := pipeline.Run(ctx, source, *sourceFlag)
	if err != nil {
		logger.Error("build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Printf("Loaded %d entries (%d rejected) into %s in %s.\n",
		result.Loaded, len(result.Rejected), cfg.Database.Path, result.Duration.Round(time.Millisecond))
}
