package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and by the configuration
// file loader and provide specific information about what is wrong.
var (
	// ErrNoRasters is returned when the base or test raster path is missing.
	ErrNoRasters = errors.New("two rasters are required: BASE_RASTER TEST_RASTER")

	// ErrInvalidTolerance is returned when rtol or atol is negative or NaN.
	ErrInvalidTolerance = errors.New("invalid tolerance: rtol and atol must be non-negative numbers")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrOutputIsInput is returned when the difference raster would overwrite
	// one of the compared rasters.
	ErrOutputIsInput = errors.New("output raster path must differ from the compared rasters")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidConfigFile is returned when the configuration file cannot be
	// decoded or names an unknown property or a malformed pattern.
	ErrInvalidConfigFile = errors.New("invalid configuration file")

	// ErrUnknownProperty is returned for an ignore entry that names no report section.
	ErrUnknownProperty = errors.New("unknown property")
)
