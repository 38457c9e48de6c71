package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "powercast/internal/errors"
)

// DefaultPath is the configuration file location used when no override is given.
const DefaultPath = "config/config.yaml"

// Config represents the complete application configuration.
// It is loaded once at component construction and treated as immutable
// for the process lifetime.
type Config struct {
	Data          DataConfig          `yaml:"data" envconfig:"DATA"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Preprocessing PreprocessingConfig `yaml:"preprocessing" envconfig:"PREPROCESSING"`
}

// DataConfig contains raw and processed dataset locations and parse formats.
type DataConfig struct {
	RawPath       string `yaml:"raw_path" envconfig:"RAW_PATH" validate:"required"`
	ProcessedPath string `yaml:"processed_path" envconfig:"PROCESSED_PATH" validate:"required"`
	Separator     string `yaml:"separator" envconfig:"SEPARATOR" validate:"required,len=1"`
	DateFormat    string `yaml:"date_format" envconfig:"DATE_FORMAT" validate:"required"`
	TimeFormat    string `yaml:"time_format" envconfig:"TIME_FORMAT" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PreprocessingConfig contains the cleaning and aggregation policy.
type PreprocessingConfig struct {
	FillMethod       string  `yaml:"fill_method" envconfig:"FILL_METHOD" validate:"oneof=ffill bfill"`
	FillLimit        int     `yaml:"fill_limit" envconfig:"FILL_LIMIT" validate:"gt=0"`
	OutlierThreshold float64 `yaml:"outlier_threshold" envconfig:"OUTLIER_THRESHOLD" validate:"gt=0"`
	AggregationLevel string  `yaml:"aggregation_level" envconfig:"AGGREGATION_LEVEL" validate:"oneof=minute T hourly H daily D"`
}

// Load loads configuration from the YAML file at path, then overlays
// environment variables (prefix POWERCAST) and validates the result.
// A missing or malformed file is a fatal configuration error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("failed to read config file", err).
			WithContext("path", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to parse config file", err).
			WithContext("path", path)
	}

	// Environment variables take precedence over file values
	if err := envconfig.Process("POWERCAST", cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}
	return nil
}

// SeparatorRune returns the raw-file field separator as a rune.
// Validate guarantees the separator is exactly one byte.
func (d DataConfig) SeparatorRune() rune {
	return rune(d.Separator[0])
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			RawPath:       "data/raw/household_power_consumption.txt",
			ProcessedPath: "data/processed",
			Separator:     ";",
			DateFormat:    "2/1/2006",
			TimeFormat:    "15:04:05",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/powercast.log",
		},
		Preprocessing: PreprocessingConfig{
			FillMethod:       "ffill",
			FillLimit:        6,
			OutlierThreshold: 3.0,
			AggregationLevel: "hourly",
		},
	}
}
