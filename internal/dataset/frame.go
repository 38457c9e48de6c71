package dataset

import (
	"fmt"
	"math"
	"time"
)

// Frame is a columnar table of float64 series aligned to a shared
// timestamp index. Missing values are NaN. Every column has exactly
// len(Index()) entries and columns iterate in insertion order.
//
// Transforms never mutate their input: each stage of the pipeline
// receives a Frame and returns a new one.
type Frame struct {
	index   []time.Time
	order   []string
	columns map[string][]float64
}

// New creates an empty frame over the given timestamp index.
// The index slice is copied.
func New(index []time.Time) *Frame {
	idx := make([]time.Time, len(index))
	copy(idx, index)
	return &Frame{
		index:   idx,
		columns: make(map[string][]float64),
	}
}

// AddColumn appends a named column. The values slice is copied and must
// match the index length.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != len(f.index) {
		return fmt.Errorf("column %s has %d values, index has %d rows", name, len(values), len(f.index))
	}
	if _, exists := f.columns[name]; exists {
		return fmt.Errorf("column %s already exists", name)
	}
	col := make([]float64, len(values))
	copy(col, values)
	f.columns[name] = col
	f.order = append(f.order, name)
	return nil
}

// SetColumn replaces the values of an existing column.
func (f *Frame) SetColumn(name string, values []float64) error {
	if _, exists := f.columns[name]; !exists {
		return fmt.Errorf("column %s does not exist", name)
	}
	if len(values) != len(f.index) {
		return fmt.Errorf("column %s has %d values, index has %d rows", name, len(values), len(f.index))
	}
	col := make([]float64, len(values))
	copy(col, values)
	f.columns[name] = col
	return nil
}

// Column returns a copy of the named column's values.
func (f *Frame) Column(name string) ([]float64, bool) {
	col, ok := f.columns[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, true
}

// Columns returns the column names in insertion order.
func (f *Frame) Columns() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// Index returns a copy of the timestamp index.
func (f *Frame) Index() []time.Time {
	out := make([]time.Time, len(f.index))
	copy(out, f.index)
	return out
}

// NumRows returns the number of rows.
func (f *Frame) NumRows() int {
	return len(f.index)
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int {
	return len(f.order)
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := New(f.index)
	for _, name := range f.order {
		// AddColumn copies, and names are unique by construction
		_ = out.AddColumn(name, f.columns[name])
	}
	return out
}

// Select returns a new frame keeping only the rows where keep is true.
func (f *Frame) Select(keep []bool) (*Frame, error) {
	if len(keep) != len(f.index) {
		return nil, fmt.Errorf("mask has %d entries, index has %d rows", len(keep), len(f.index))
	}

	var idx []time.Time
	for i, k := range keep {
		if k {
			idx = append(idx, f.index[i])
		}
	}

	out := New(idx)
	for _, name := range f.order {
		src := f.columns[name]
		vals := make([]float64, 0, len(idx))
		for i, k := range keep {
			if k {
				vals = append(vals, src[i])
			}
		}
		if err := out.AddColumn(name, vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RowHasMissing reports whether row i contains a NaN in any column.
func (f *Frame) RowHasMissing(i int) bool {
	for _, name := range f.order {
		if math.IsNaN(f.columns[name][i]) {
			return true
		}
	}
	return false
}

// MissingCounts returns the number of NaN entries per column.
func (f *Frame) MissingCounts() map[string]int {
	counts := make(map[string]int, len(f.order))
	for _, name := range f.order {
		n := 0
		for _, v := range f.columns[name] {
			if math.IsNaN(v) {
				n++
			}
		}
		counts[name] = n
	}
	return counts
}

// TotalMissing returns the number of NaN entries across all columns.
func (f *Frame) TotalMissing() int {
	total := 0
	for _, n := range f.MissingCounts() {
		total += n
	}
	return total
}

// TimeRange returns the earliest and latest timestamps in the index.
// ok is false for an empty frame.
func (f *Frame) TimeRange() (first, last time.Time, ok bool) {
	if len(f.index) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = f.index[0], f.index[0]
	for _, ts := range f.index[1:] {
		if ts.Before(first) {
			first = ts
		}
		if ts.After(last) {
			last = ts
		}
	}
	return first, last, true
}

// StrictlyIncreasing reports whether the index is strictly increasing
// with no duplicate timestamps.
func (f *Frame) StrictlyIncreasing() bool {
	for i := 1; i < len(f.index); i++ {
		if !f.index[i-1].Before(f.index[i]) {
			return false
		}
	}
	return true
}

// Equal reports whether two frames have the same index, column order and
// values within tol. NaN entries compare equal to NaN.
func (f *Frame) Equal(other *Frame, tol float64) bool {
	if other == nil || len(f.index) != len(other.index) || len(f.order) != len(other.order) {
		return false
	}
	for i := range f.index {
		if !f.index[i].Equal(other.index[i]) {
			return false
		}
	}
	for i, name := range f.order {
		if other.order[i] != name {
			return false
		}
		a, b := f.columns[name], other.columns[name]
		for j := range a {
			if math.IsNaN(a[j]) && math.IsNaN(b[j]) {
				continue
			}
			if math.Abs(a[j]-b[j]) > tol {
				return false
			}
		}
	}
	return true
}
