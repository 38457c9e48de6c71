package preprocessing

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powercast/internal/config"
	"powercast/internal/dataset"
)

func TestPipeline_EndToEnd(t *testing.T) {
	// Two hours of one-minute readings with a few short gaps. After the
	// pipeline: no missing values, one row per hour, strictly
	// increasing index.
	n := 120
	voltage := constant(n, 230.0)
	sub := constant(n, 1.0)
	voltage[10] = math.NaN()
	voltage[11] = math.NaN()
	sub[73] = math.NaN()

	f := buildFrame(t, n, map[string][]float64{
		"Voltage":        voltage,
		"Sub_metering_1": sub,
	}, "Voltage", "Sub_metering_1")

	p := New(config.Default(), nil)
	out, err := p.Pipeline(context.Background(), f)
	require.NoError(t, err)

	require.Equal(t, 2, out.NumRows())
	assert.True(t, out.StrictlyIncreasing())
	assert.Zero(t, out.TotalMissing())

	v, _ := out.Column("Voltage")
	assert.InDelta(t, 230.0, v[0], 1e-9)
	assert.InDelta(t, 230.0, v[1], 1e-9)

	s, _ := out.Column("Sub_metering_1")
	assert.InDelta(t, 60.0, s[0], 1e-9)
	assert.InDelta(t, 60.0, s[1], 1e-9)
}

func TestPipeline_StageOrder(t *testing.T) {
	// An hour with no readings at all must survive missing-value
	// handling (which runs before aggregation), appear as an empty
	// bucket, and then be dropped by outlier removal.
	base := time.Date(2007, 1, 1, 0, 0, 0, 0, time.UTC)
	idx := []time.Time{base, base.Add(2 * time.Hour)}
	f := dataset.New(idx)
	require.NoError(t, f.AddColumn("Voltage", []float64{230, 232}))

	p := New(config.Default(), nil)
	out, err := p.Pipeline(context.Background(), f)
	require.NoError(t, err)

	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, base, out.Index()[0])
	assert.Equal(t, base.Add(2*time.Hour), out.Index()[1])
	assert.Zero(t, out.TotalMissing())
}

func TestDescribe(t *testing.T) {
	f := buildFrame(t, 4, map[string][]float64{
		"Voltage": {1, 2, 3, 4},
	}, "Voltage")

	summaries := Describe(f)
	s, ok := summaries["Voltage"]
	require.True(t, ok)

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-9)
	assert.InDelta(t, 1.2909944487, s.Std, 1e-9)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 4.0, s.Max)
}

func TestDescribe_IgnoresMissing(t *testing.T) {
	f := buildFrame(t, 3, map[string][]float64{
		"Voltage": {230, math.NaN(), 232},
	}, "Voltage")

	s := Describe(f)["Voltage"]
	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 231.0, s.Mean, 1e-9)
}
