// Command loadraw loads the raw household power readings and logs a
// summary (shape, date range, per-column missing counts) without
// running the preprocessing pipeline. Useful for inspecting a new
// dataset before configuring the pipeline.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"powercast/internal/config"
	"powercast/internal/infrastructure"
	"powercast/internal/loader"
	"powercast/internal/preprocessing"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to configuration file")
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

	frame, err := loader.New(cfg, logger).LoadRaw(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "raw data load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	summaries := preprocessing.Describe(frame)
	for _, name := range frame.Columns() {
		s := summaries[name]
		logger.InfoContext(ctx, "column summary",
			slog.String("column", name),
			slog.Int("count", s.Count),
			slog.Float64("mean", s.Mean),
			slog.Float64("std", s.Std),
			slog.Float64("min", s.Min),
			slog.Float64("max", s.Max))
	}
}
