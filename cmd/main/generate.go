package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/CTAG07/charkov/pkg/corpus"
	"github.com/CTAG07/charkov/pkg/markov"
)

// randomMode selects a non-deterministic model; any other mode is seeded.
const randomMode = "random"

// generateRequest holds the validated positional arguments of a generation run.
type generateRequest struct {
	windowLength int
	seed         string
	outputLength int
	mode         string
	corpusPath   string
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("db", false, "treat corpusPath as a SQLite corpus database instead of a text file")
	cmd.Flags().String("out", "", "write the generated text to this file instead of stdout")
	cmd.Flags().Bool("dump", false, "print the trained frequency table to stderr")
}

// parseGenerateArgs validates the five positional arguments.
func parseGenerateArgs(args []string) (generateRequest, error) {
	windowLength, err := parseWindowLength(args[0])
	if err != nil {
		return generateRequest{}, err
	}
	outputLength, err := strconv.Atoi(args[2])
	if err != nil {
		return generateRequest{}, fmt.Errorf("outputLength must be an integer, got %q", args[2])
	}
	if outputLength < 0 {
		return generateRequest{}, fmt.Errorf("outputLength must not be negative, got %d", outputLength)
	}
	return generateRequest{
		windowLength: windowLength,
		seed:         args[1],
		outputLength: outputLength,
		mode:         args[3],
		corpusPath:   args[4],
	}, nil
}

func parseWindowLength(arg string) (int, error) {
	windowLength, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("windowLength must be an integer, got %q", arg)
	}
	if windowLength <= 0 {
		return 0, fmt.Errorf("windowLength must be positive, got %d", windowLength)
	}
	return windowLength, nil
}

// newModel builds a model for mode: "random" uses a non-deterministic source,
// anything else the configured debug seed.
func (a *app) newModel(windowLength int, mode string) (*markov.Model, error) {
	var model *markov.Model
	var err error
	if mode == randomMode {
		model, err = markov.New(windowLength)
	} else {
		model, err = markov.NewSeeded(windowLength, a.config.DebugSeed)
	}
	if err != nil {
		return nil, err
	}
	model.SetLogger(a.logger)
	return model, nil
}

// openSource returns the corpus source for path and a function releasing it.
func (a *app) openSource(path string, useDB bool) (corpus.Source, func(), error) {
	if !useDB {
		return corpus.NewFileSource(path), func() {}, nil
	}
	db, store, err := a.openCorpusStore(path, false)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		store.Close()
		_ = db.Close()
	}, nil
}

// openCorpusStore opens a SQLite corpus database, creating its schema if
// needed. Unless create is set, the database file must already exist.
func (a *app) openCorpusStore(path string, create bool) (*sql.DB, *corpus.Store, error) {
	if !create {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, fmt.Errorf("corpus database unavailable: %w", err)
		}
	}
	db, err := sql.Open(sqliteDriver, path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open corpus database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to set up corpus schema: %w", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create corpus store: %w", err)
	}
	store.SetLogger(a.logger)
	return db, store, nil
}

// trainFromSource trains model on the whole corpus supplied by src.
func (a *app) trainFromSource(ctx context.Context, model *markov.Model, src corpus.Source) error {
	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = rc.Close()
	}()

	if err = model.Train(ctx, rc); err != nil {
		return fmt.Errorf("training on %s failed: %w", src.Name(), err)
	}
	a.logger.InfoContext(ctx, "Model trained",
		slog.String("corpus", src.Name()),
		slog.Int("windows", model.Table().Len()),
	)
	return nil
}

// runGenerate trains a model on the corpus and extends the seed text.
func (a *app) runGenerate(cmd *cobra.Command, args []string) error {
	req, err := parseGenerateArgs(args)
	if err != nil {
		return err
	}
	// Arguments are valid; later failures are not usage errors.
	cmd.SilenceUsage = true

	useDB, _ := cmd.Flags().GetBool("db")
	outPath, _ := cmd.Flags().GetString("out")
	dump, _ := cmd.Flags().GetBool("dump")
	ctx := cmd.Context()

	model, err := a.newModel(req.windowLength, req.mode)
	if err != nil {
		return err
	}

	src, release, err := a.openSource(req.corpusPath, useDB)
	if err != nil {
		return err
	}
	defer release()

	if err = a.trainFromSource(ctx, model, src); err != nil {
		return err
	}
	if dump {
		_, _ = fmt.Fprint(cmd.ErrOrStderr(), model.String())
	}

	text, genErr := model.Generate(ctx, req.seed, req.outputLength)
	if genErr != nil && !errors.Is(genErr, markov.ErrWindowNotFound) {
		return genErr
	}

	if outPath != "" {
		if err = atomic.WriteFile(outPath, strings.NewReader(text+"\n")); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
	} else {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
	}

	if genErr != nil {
		return fmt.Errorf("generation stopped early: %w", genErr)
	}
	return nil
}
