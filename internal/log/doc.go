// Package log builds the slog loggers used by riodiff.
//
// Loggers write text to the given writer (stderr in the CLI) at Warn level,
// or Debug in verbose mode. They are wrapped in a CompactHandler, which
// shortens long string attributes: CRS definitions travel as WKT strings of
// several kilobytes and GDAL debug messages can be just as long.
//
// # Usage
//
//	logger := log.New(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Debug("band compared", "band", 1, "diff_count", 12)
package log
