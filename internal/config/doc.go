// Package config provides configuration structures and utilities for riodiff.
// It defines the comparison options (tolerance, difference raster output),
// the report sections that can be suppressed, report format preferences and
// the optional .riodiff YAML file with per-raster profiles.
package config
