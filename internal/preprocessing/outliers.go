package preprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/stat"

	"powercast/internal/dataset"
	apperrors "powercast/internal/errors"
)

// RemoveOutliers drops rows whose z-score meets or exceeds the
// configured threshold in any of the given columns (all columns in
// frame order when none are given).
//
// Columns are checked sequentially: each column's population mean and
// standard deviation are computed over the rows still retained when its
// turn comes, so column order is part of the contract and affects which
// rows survive when outliers overlap across columns. Missing values
// always fail the check, which is what removes empty aggregation
// buckets.
func (p *Preprocessor) RemoveOutliers(ctx context.Context, frame *dataset.Frame, columns ...string) (*dataset.Frame, error) {
	if len(columns) == 0 {
		columns = frame.Columns()
	}
	threshold := p.cfg.Preprocessing.OutlierThreshold
	total := frame.NumRows()

	retained := make([]bool, total)
	for i := range retained {
		retained[i] = true
	}

	for _, name := range columns {
		col, ok := frame.Column(name)
		if !ok {
			return nil, apperrors.NewValidationError(fmt.Sprintf("unknown column %q", name))
		}

		var samples []float64
		for i, v := range col {
			if retained[i] && !math.IsNaN(v) {
				samples = append(samples, v)
			}
		}

		var mean, std float64
		if len(samples) > 0 {
			mean = stat.Mean(samples, nil)
			std = stat.PopStdDev(samples, nil)
		}

		for i := range retained {
			if !retained[i] {
				continue
			}
			v := col[i]
			if math.IsNaN(v) {
				retained[i] = false
				continue
			}
			// Zero spread means no dispersion and therefore no outliers.
			if std == 0 {
				continue
			}
			if math.Abs((v-mean)/std) >= threshold {
				retained[i] = false
			}
		}
	}

	out, err := frame.Select(retained)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	removed := total - out.NumRows()
	pct := 0.0
	if total > 0 {
		pct = float64(removed) / float64(total) * 100
	}
	p.logger.InfoContext(ctx, "outliers removed",
		slog.Int("removed", removed),
		slog.Float64("removed_pct", pct),
		slog.Float64("threshold", threshold))

	return out, nil
}
