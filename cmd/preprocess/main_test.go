package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"powercast/internal/config"
	"powercast/internal/loader"
	"powercast/internal/shared/testutil"
)

const rawFixture = `Date;Time;Global_active_power;Voltage;Sub_metering_1
1/1/2007;00:00:00;1.5;230.0;1.0
1/1/2007;00:01:00;1.6;230.2;1.0
1/1/2007;00:02:00;?;230.1;1.0
1/1/2007;00:03:00;1.4;229.9;1.0
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Data.RawPath = filepath.Join(dir, "household_power_consumption.txt")
	cfg.Data.ProcessedPath = filepath.Join(dir, "processed")
	require.NoError(t, os.WriteFile(cfg.Data.RawPath, []byte(rawFixture), 0644))
	return cfg
}

func TestRun_GeneratesArtifact(t *testing.T) {
	cfg := testConfig(t)
	handler := testutil.NewBufferedSlogHandler(t)

	err := run(context.Background(), cfg, handler.Logger(), "hourly.csv", false)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(cfg.Data.ProcessedPath, "hourly.csv"))
	assert.NotNil(t, handler.Find("processed dataset not found, running pipeline"))

	// The artifact round-trips through the loader
	ld := loader.New(cfg, handler.Logger())
	frame, err := ld.LoadProcessed(context.Background(), "hourly.csv")
	require.NoError(t, err)
	assert.Equal(t, 1, frame.NumRows())
	assert.Zero(t, frame.TotalMissing())
}

func TestRun_SkipsWhenArtifactExists(t *testing.T) {
	cfg := testConfig(t)
	handler := testutil.NewBufferedSlogHandler(t)
	ctx := context.Background()

	require.NoError(t, run(ctx, cfg, handler.Logger(), "hourly.csv", false))

	path := filepath.Join(cfg.Data.ProcessedPath, "hourly.csv")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// Second run finds the artifact and skips the pipeline
	second := testutil.NewBufferedSlogHandler(t)
	require.NoError(t, run(ctx, cfg, second.Logger(), "hourly.csv", false))
	assert.NotNil(t, second.Find("processed dataset already exists, skipping pipeline"))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRun_ForceRegenerates(t *testing.T) {
	cfg := testConfig(t)
	handler := testutil.NewBufferedSlogHandler(t)
	ctx := context.Background()

	require.NoError(t, run(ctx, cfg, handler.Logger(), "hourly.csv", false))

	forced := testutil.NewBufferedSlogHandler(t)
	require.NoError(t, run(ctx, cfg, forced.Logger(), "hourly.csv", true))

	assert.Nil(t, forced.Find("processed dataset already exists, skipping pipeline"))
	assert.NotNil(t, forced.Find("processed data saved"))
}

func TestRun_RawMissing(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.Remove(cfg.Data.RawPath))

	err := run(context.Background(), cfg, testutil.NewBufferedSlogHandler(t).Logger(), "hourly.csv", false)
	assert.Error(t, err)
}
