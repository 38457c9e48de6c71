// Package config loads and validates the powercast configuration.
//
// Configuration comes from a YAML document (default config/config.yaml)
// with environment-variable overrides using the POWERCAST prefix, e.g.
// POWERCAST_PREPROCESSING_OUTLIER_THRESHOLD=2.5. The resulting Config is
// passed explicitly to each component constructor; there is no process-wide
// singleton.
package config
