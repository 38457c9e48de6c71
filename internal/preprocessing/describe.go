package preprocessing

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"powercast/internal/dataset"
)

// ColumnSummary holds descriptive statistics for one column.
type ColumnSummary struct {
	Count int
	Mean  float64
	Std   float64
	Min   float64
	Max   float64
}

// Describe computes per-column summary statistics over non-missing
// values, for advisory logging after a pipeline run. Std is the sample
// standard deviation.
func Describe(frame *dataset.Frame) map[string]ColumnSummary {
	summaries := make(map[string]ColumnSummary, frame.NumCols())
	for _, name := range frame.Columns() {
		col, _ := frame.Column(name)

		var vals []float64
		for _, v := range col {
			if !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}

		s := ColumnSummary{Count: len(vals)}
		if len(vals) > 0 {
			s.Mean = stat.Mean(vals, nil)
			s.Min = floats.Min(vals)
			s.Max = floats.Max(vals)
		}
		if len(vals) > 1 {
			s.Std = stat.StdDev(vals, nil)
		}
		summaries[name] = s
	}
	return summaries
}
