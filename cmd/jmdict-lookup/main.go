// Command jmdict-lookup looks a term up in a built dictionary store.
// Terms containing kanji search the kanji-form index, everything else the
// reading index; -index forces one of the two.
//
// Usage:
//
//	jmdict-lookup [-db jmdict.db] [-index reading|kanji] TERM
//	jmdict-lookup -seq 1358280
//	jmdict-lookup -info
//
// Exit codes: 0 = success (a miss is not an error), 1 = error.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite"
	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite/buildinfo"
	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite/entry"
	"github.com/heartmarshall/jmdict-store/internal/app"
	"github.com/heartmarshall/jmdict-store/internal/config"
	"github.com/heartmarshall/jmdict-store/internal/domain"
	"github.com/heartmarshall/jmdict-store/internal/jmdict"
	"github.com/heartmarshall/jmdict-store/internal/service/lookup"
)

func main() {
	dbFlag := flag.String("db", "", "store file path (overrides config)")
	indexFlag := flag.String("index", "", "force index: reading or kanji")
	seqFlag := flag.Int64("seq", 0, "look up one entry by sequence id")
	infoFlag := flag.Bool("info", false, "print store provenance and exit")
	flag.Parse()

	term := flag.Arg(0)
	if term == "" && *seqFlag == 0 && !*infoFlag {
		fmt.Fprintln(os.Stderr, "Usage: jmdict-lookup [-db jmdict.db] [-index reading|kanji] TERM")
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Opening a missing file would create an empty store; fail early instead.
	if _, err := os.Stat(cfg.Database.Path); errors.Is(err, fs.ErrNotExist) {
		logger.Error("store not found, run jmdict-build first", slog.String("db", cfg.Database.Path))
		os.Exit(1)
	}

	db, err := sqlite.Open(ctx, cfg.Database)
	if err != nil {
		logger.Error("open store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	entries := entry.New(db)

	switch {
	case *infoFlag:
		err = printStoreInfo(ctx, db, entries, cfg.Database.Path)
	case *seqFlag != 0:
		err = lookupBySeq(ctx, entries, *seqFlag)
	default:
		err = lookupTerm(ctx, logger, entries, *indexFlag, term)
	}
	if err != nil {
		logger.Error("lookup failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func lookupTerm(ctx context.Context, logger *slog.Logger, entries *entry.Repo, index, term string) error {
	svc := lookup.NewService(logger, entries)

	var (
		results []domain.Entry
		err     error
	)
	switch index {
	case "":
		results, err = svc.Search(ctx, term)
	case "reading":
		results, err = svc.FindByReading(ctx, term)
	case "kanji":
		results, err = svc.FindByKanjiForm(ctx, term)
	default:
		return fmt.Errorf("unknown index %q (want reading or kanji)", index)
	}
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Printf("No entries found for %q.\n", term)
		return nil
	}

	for i, e := range results {
		if i > 0 {
			fmt.Println()
		}
		printEntry(os.Stdout, e)
	}
	return nil
}

func lookupBySeq(ctx context.Context, entries *entry.Repo, seq int64) error {
	e, err := entries.GetBySeq(ctx, seq)
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Printf("No entry with sequence id %d.\n", seq)
		return nil
	}
	if err != nil {
		return err
	}

	printEntry(os.Stdout, *e)
	return nil
}

func printStoreInfo(ctx context.Context, db *sql.DB, entries *entry.Repo, path string) error {
	count, err := entries.CountEntries(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Store: %s (%d entries)\n", path, count)

	info, err := buildinfo.New(db).LatestBuild(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		fmt.Println("No build recorded.")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("Built from %s at %s (build %s, %d loaded, %d rejected)\n",
		info.Source, info.FinishedAt.Format(time.RFC3339), info.ID, info.EntriesLoaded, info.EntriesRejected)
	return nil
}

// printEntry renders one entry: headword line, then numbered senses with
// part-of-speech tags and glosses.
func printEntry(w io.Writer, e domain.Entry) {
	readings := make([]string, len(e.Readings))
	for i, r := range e.Readings {
		readings[i] = r.Text
	}

	header := strings.Join(readings, ", ")
	if len(e.KanjiForms) > 0 {
		forms := make([]string, len(e.KanjiForms))
		for i, k := range e.KanjiForms {
			forms[i] = k.Text
		}
		header = strings.Join(forms, ", ") + " 【" + strings.Join(readings, ", ") + "】"
	}
	fmt.Fprintf(w, "%s (seq %d)\n", header, e.SeqID)

	for i, sense := range e.Senses {
		var tags string
		if len(sense.PartsOfSpeech) > 0 {
			parts := make([]string, len(sense.PartsOfSpeech))
			for j, p := range sense.PartsOfSpeech {
				parts[j] = p.Tag
			}
			tags = "[" + strings.Join(parts, ", ") + "] "
		}

		glosses := make([]string, len(sense.Glosses))
		for j, g := range sense.Glosses {
			glosses[j] = g.Text
			if g.Lang != jmdict.DefaultGlossLang {
				glosses[j] = g.Text + " (" + g.Lang + ")"
			}
		}
		fmt.Fprintf(w, "  %d. %s%s\n", i+1, tags, strings.Join(glosses, "; "))
	}
}
