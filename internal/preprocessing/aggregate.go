package preprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"powercast/internal/dataset"
	apperrors "powercast/internal/errors"
)

// sumColumns holds the cumulative energy counters that are summed per
// bucket. Every other column is an instantaneous reading and is
// averaged.
var sumColumns = map[string]bool{
	"Sub_metering_1": true,
	"Sub_metering_2": true,
	"Sub_metering_3": true,
}

// AggregateData resamples the frame to the configured granularity.
//
// The output index is contiguous and strictly increasing from the first
// to the last bucket. Buckets with no source rows appear with missing
// mean values (and zero sums); outlier removal runs after this stage
// and drops them.
func (p *Preprocessor) AggregateData(ctx context.Context, frame *dataset.Frame) (*dataset.Frame, error) {
	level := p.cfg.Preprocessing.AggregationLevel
	step, err := bucketStep(level)
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "aggregating data",
		slog.String("level", level),
		slog.Int("rows", frame.NumRows()))

	if frame.NumRows() == 0 {
		return frame.Clone(), nil
	}

	first, last, _ := frame.TimeRange()
	start := first.Truncate(step)
	end := last.Truncate(step)
	numBuckets := int(end.Sub(start)/step) + 1

	index := make([]time.Time, numBuckets)
	for i := range index {
		index[i] = start.Add(time.Duration(i) * step)
	}

	// Gather per-bucket sample slices for each column, skipping NaN.
	sourceIndex := frame.Index()
	out := dataset.New(index)
	for _, name := range frame.Columns() {
		col, _ := frame.Column(name)
		buckets := make([][]float64, numBuckets)
		for i, ts := range sourceIndex {
			if math.IsNaN(col[i]) {
				continue
			}
			b := int(ts.Truncate(step).Sub(start) / step)
			buckets[b] = append(buckets[b], col[i])
		}

		agg := make([]float64, numBuckets)
		for b, samples := range buckets {
			if sumColumns[name] {
				agg[b] = floats.Sum(samples)
				continue
			}
			if len(samples) == 0 {
				agg[b] = math.NaN()
				continue
			}
			agg[b] = stat.Mean(samples, nil)
		}
		if err := out.AddColumn(name, agg); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	p.logger.InfoContext(ctx, "data aggregated",
		slog.String("level", level),
		slog.Int("buckets", out.NumRows()))

	return out, nil
}

// bucketStep maps an aggregation granularity token to a bucket width.
// Timestamps are naive UTC, so daily truncation is epoch aligned.
func bucketStep(level string) (time.Duration, error) {
	switch level {
	case "minute", "T":
		return time.Minute, nil
	case "hourly", "H":
		return time.Hour, nil
	case "daily", "D":
		return 24 * time.Hour, nil
	default:
		return 0, apperrors.NewValidationError(fmt.Sprintf("unknown aggregation level %q", level))
	}
}
