package preprocessing

import (
	"context"
	"log/slog"
	"math"

	"powercast/internal/dataset"
	apperrors "powercast/internal/errors"
)

// HandleMissingValues closes gaps in three steps:
//
//  1. the configured directional fill (ffill or bfill), applied only to
//     gap runs no longer than the configured fill limit so long
//     stretches are never fabricated from a single reading;
//  2. linear interpolation over the remaining gaps, using the single
//     nearest neighbor for gaps at either end of the series;
//  3. dropping every row that still contains a missing value.
//
// The output contains no missing values in any column.
func (p *Preprocessor) HandleMissingValues(ctx context.Context, frame *dataset.Frame) (*dataset.Frame, error) {
	before := frame.TotalMissing()
	p.logger.InfoContext(ctx, "handling missing values",
		slog.Int("missing_before", before))

	method := p.cfg.Preprocessing.FillMethod
	limit := p.cfg.Preprocessing.FillLimit

	out := frame.Clone()
	for _, name := range out.Columns() {
		col, _ := out.Column(name)
		fillBounded(col, method, limit)
		interpolateLinear(col)
		if err := out.SetColumn(name, col); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}

	keep := make([]bool, out.NumRows())
	dropped := 0
	for i := range keep {
		keep[i] = !out.RowHasMissing(i)
		if !keep[i] {
			dropped++
		}
	}
	out, err := out.Select(keep)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	p.logger.InfoContext(ctx, "missing values handled",
		slog.Int("missing_after", out.TotalMissing()),
		slog.Int("rows_dropped", dropped))

	return out, nil
}

// fillBounded applies a directional fill in place to NaN runs of length
// at most limit. Longer runs are left untouched for interpolation.
func fillBounded(values []float64, method string, limit int) {
	n := len(values)
	i := 0
	for i < n {
		if !math.IsNaN(values[i]) {
			i++
			continue
		}

		// NaN run [i, j)
		j := i
		for j < n && math.IsNaN(values[j]) {
			j++
		}

		if j-i <= limit {
			switch method {
			case "bfill":
				if j < n {
					for k := i; k < j; k++ {
						values[k] = values[j]
					}
				}
			default: // ffill
				if i > 0 {
					for k := i; k < j; k++ {
						values[k] = values[i-1]
					}
				}
			}
		}
		i = j
	}
}

// interpolateLinear closes remaining NaN runs in place. Interior runs
// are interpolated between both neighbors assuming equal spacing; runs
// at the start or end of the series take the value of the only
// neighbor. A fully missing series stays missing.
func interpolateLinear(values []float64) {
	n := len(values)
	i := 0
	for i < n {
		if !math.IsNaN(values[i]) {
			i++
			continue
		}

		j := i
		for j < n && math.IsNaN(values[j]) {
			j++
		}

		hasPrev := i > 0
		hasNext := j < n
		switch {
		case hasPrev && hasNext:
			prev, next := values[i-1], values[j]
			span := float64(j - i + 1)
			for k := i; k < j; k++ {
				frac := float64(k-i+1) / span
				values[k] = prev + (next-prev)*frac
			}
		case hasPrev:
			for k := i; k < j; k++ {
				values[k] = values[i-1]
			}
		case hasNext:
			for k := i; k < j; k++ {
				values[k] = values[j]
			}
		}
		i = j
	}
}
