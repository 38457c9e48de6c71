package preprocessing

import (
	"context"
	"log/slog"

	"powercast/internal/config"
	"powercast/internal/dataset"
)

// Preprocessor transforms a raw-resolution dataset into a clean,
// aggregated one suitable for forecasting.
//
// The pipeline is strictly linear: missing-value handling runs on raw
// resolution so short native gaps are fixable, aggregation establishes
// the bucket population, and outlier removal computes z-scores over the
// aggregated values.
type Preprocessor struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a preprocessor for the given configuration.
func New(cfg *config.Config, logger *slog.Logger) *Preprocessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preprocessor{cfg: cfg, logger: logger}
}

// Pipeline runs HandleMissingValues, AggregateData and RemoveOutliers
// in that fixed order and returns the final cleaned frame.
func (p *Preprocessor) Pipeline(ctx context.Context, frame *dataset.Frame) (*dataset.Frame, error) {
	p.logger.InfoContext(ctx, "starting preprocessing pipeline",
		slog.Int("rows", frame.NumRows()),
		slog.Int("columns", frame.NumCols()))

	frame, err := p.HandleMissingValues(ctx, frame)
	if err != nil {
		return nil, err
	}

	frame, err = p.AggregateData(ctx, frame)
	if err != nil {
		return nil, err
	}

	frame, err = p.RemoveOutliers(ctx, frame)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "preprocessing complete",
		slog.Int("rows", frame.NumRows()),
		slog.Int("columns", frame.NumCols()))

	return frame, nil
}
