package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "powercast/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
data:
  raw_path: testdata/household_power_consumption.txt
  processed_path: testdata/processed
  separator: ";"
  date_format: "2/1/2006"
  time_format: "15:04:05"
preprocessing:
  fill_method: ffill
  fill_limit: 6
  outlier_threshold: 3.0
  aggregation_level: hourly
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "testdata/household_power_consumption.txt", cfg.Data.RawPath)
	assert.Equal(t, ';', cfg.Data.SeparatorRune())
	assert.Equal(t, "ffill", cfg.Preprocessing.FillMethod)
	assert.Equal(t, 6, cfg.Preprocessing.FillLimit)
	assert.Equal(t, 3.0, cfg.Preprocessing.OutlierThreshold)
	assert.Equal(t, "hourly", cfg.Preprocessing.AggregationLevel)
	// Unspecified sections keep defaults
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestLoad_Malformed(t *testing.T) {
	path := writeConfig(t, "data: [not a mapping")

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("POWERCAST_PREPROCESSING_OUTLIER_THRESHOLD", "2.5")
	t.Setenv("POWERCAST_DATA_SEPARATOR", ",")

	path := writeConfig(t, `
preprocessing:
  outlier_threshold: 3.0
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.Preprocessing.OutlierThreshold)
	assert.Equal(t, ',', cfg.Data.SeparatorRune())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty raw path",
			mutate:  func(c *Config) { c.Data.RawPath = "" },
			wantErr: true,
		},
		{
			name:    "multi-byte separator",
			mutate:  func(c *Config) { c.Data.Separator = ";;" },
			wantErr: true,
		},
		{
			name:    "unknown fill method",
			mutate:  func(c *Config) { c.Preprocessing.FillMethod = "nearest" },
			wantErr: true,
		},
		{
			name:    "non-positive fill limit",
			mutate:  func(c *Config) { c.Preprocessing.FillLimit = 0 },
			wantErr: true,
		},
		{
			name:    "non-positive threshold",
			mutate:  func(c *Config) { c.Preprocessing.OutlierThreshold = -1 },
			wantErr: true,
		},
		{
			name:    "unknown aggregation level",
			mutate:  func(c *Config) { c.Preprocessing.AggregationLevel = "weekly" },
			wantErr: true,
		},
		{
			name:    "short aggregation tokens accepted",
			mutate:  func(c *Config) { c.Preprocessing.AggregationLevel = "H" },
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
