// Command preprocess runs the full preprocessing pipeline: it loads the
// raw household power readings, cleans and aggregates them, and saves
// the processed dataset. When the processed artifact already exists the
// pipeline is skipped unless -force is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"powercast/internal/config"
	apperrors "powercast/internal/errors"
	"powercast/internal/infrastructure"
	"powercast/internal/loader"
	"powercast/internal/preprocessing"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to configuration file")
	out := flag.String("out", loader.DefaultArtifact, "processed artifact file name")
	force := flag.Bool("force", false, "re-run the pipeline even if the processed artifact exists")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err, "path", *configPath)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithTraceID(context.Background())
	logger.InfoContext(ctx, "starting preprocess",
		slog.String("config", *configPath),
		slog.String("artifact", *out),
		slog.Bool("force", *force))

	if err := run(ctx, cfg, logger, *out, *force); err != nil {
		logger.ErrorContext(ctx, "preprocessing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run executes the load-preprocess-save flow. Without force it first
// tries the existing processed artifact and only falls back to the raw
// pipeline on a not-found condition.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, artifact string, force bool) error {
	ld := loader.New(cfg, logger)

	if !force {
		frame, err := ld.LoadProcessed(ctx, artifact)
		switch {
		case err == nil:
			logger.InfoContext(ctx, "processed dataset already exists, skipping pipeline",
				slog.String("artifact", artifact),
				slog.Int("rows", frame.NumRows()))
			return nil
		case apperrors.IsNotFound(err):
			logger.InfoContext(ctx, "processed dataset not found, running pipeline",
				slog.String("artifact", artifact))
		default:
			return fmt.Errorf("checking processed dataset: %w", err)
		}
	}

	raw, err := ld.LoadRaw(ctx)
	if err != nil {
		return err
	}

	processed, err := preprocessing.New(cfg, logger).Pipeline(ctx, raw)
	if err != nil {
		return err
	}

	if err := ld.SaveProcessed(ctx, processed, artifact); err != nil {
		return err
	}

	summaries := preprocessing.Describe(processed)
	for _, name := range processed.Columns() {
		s := summaries[name]
		logger.InfoContext(ctx, "column summary",
			slog.String("column", name),
			slog.Int("count", s.Count),
			slog.Float64("mean", s.Mean),
			slog.Float64("std", s.Std),
			slog.Float64("min", s.Min),
			slog.Float64("max", s.Max))
	}
	return nil
}
