package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/seriescatalog/catalog-reports/catalog/batch"
	"github.com/seriescatalog/catalog-reports/catalog/generator"
	"github.com/seriescatalog/catalog-reports/catalog/report"
	"github.com/seriescatalog/catalog-reports/config"
	"github.com/seriescatalog/catalog-reports/docstore"
)

const outputDirPerm = 0o755

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration failed", "error", err.Error())
		return 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID, err := uuid.NewV7()
	if err != nil {
		logger.Error("creating run id failed", "error", err.Error())
		return 1
	}
	logger = logger.With("run_id", runID.String())

	timings := batch.NewTimingCollector()

	store, closeStore, err := openStore(ctx, cfg, logger, timings)
	if err != nil {
		if errors.Is(err, docstore.ErrConnectionFailed) {
			logger.Error("connecting to the document store failed", "engine", string(cfg.Engine), "error", err.Error())
		} else {
			logger.Error("opening the document store failed", "engine", string(cfg.Engine), "error", err.Error())
		}
		return 1
	}
	defer closeStore()

	logger.Info("document store ready", "engine", string(cfg.Engine))

	if err := os.MkdirAll(cfg.OutputDir, outputDirPerm); err != nil {
		logger.Error("creating output directory failed", "dir", cfg.OutputDir, "error", err.Error())
		return 1
	}

	gen, err := generator.New(generator.WithSeed(cfg.RandomSeed))
	if err != nil {
		logger.Error("creating generator failed", "error", err.Error())
		return 1
	}

	runner, err := report.NewRunner(
		report.WithOutput(os.Stdout),
		report.WithOutputDir(cfg.OutputDir),
		report.WithLogger(logger),
	)
	if err != nil {
		logger.Error("creating report runner failed", "error", err.Error())
		return 1
	}

	summary, err := batch.Run(
		ctx,
		batch.Dependencies{
			Store:     store,
			Generator: gen,
			Runner:    runner,
			Out:       os.Stdout,
			Logger:    logger,
		},
		batch.Settings{
			RunID:                 runID.String(),
			Collections:           report.Collections{Series: cfg.SeriesCollection, Details: cfg.DetailsCollection},
			SeriesCount:           cfg.SeriesCount,
			IncompleteSeriesCount: cfg.IncompleteSeriesCount,
			EpisodesPerSeason:     cfg.EpisodesPerSeason,
		},
	)

	timings.LogSummary(logger)

	if err != nil {
		logger.Error("catalog run failed", "error", err.Error())
		return 1
	}

	logger.Info(
		"catalog run finished",
		"series", summary.SeriesInserted+summary.IncompleteSeriesInserted,
		"details", summary.DetailsInserted,
		"files", len(summary.Files()),
	)

	return 0
}
