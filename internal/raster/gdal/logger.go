package gdal

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/airbusgeo/godal"

	"github.com/nao1215/riodiff/internal/raster"
)

// errorHandler routes CPL messages into logger. Debug and warning messages
// are logged; failures are returned as errors to the godal call site.
func errorHandler(logger *slog.Logger) godal.ErrorHandler {
	return func(ec godal.ErrorCategory, code int, msg string) error {
		switch ec {
		case godal.CE_None:
			return nil
		case godal.CE_Debug:
			logger.Debug("gdal", "code", code, "msg", msg)
			return nil
		case godal.CE_Warning:
			logger.Warn("gdal", "code", code, "msg", msg)
			return nil
		default:
			return fmt.Errorf("gdal error %d: %s", code, msg)
		}
	}
}

// statisticsErrorHandler is errorHandler for ComputeStatistics. GDAL reports
// a band without valid pixels as "Failed to compute statistics, no valid
// pixels found in sampling."; that message becomes raster.ErrNoValidPixels
// and every other failure is returned unchanged.
func statisticsErrorHandler(logger *slog.Logger) godal.ErrorHandler {
	next := errorHandler(logger)
	return func(ec godal.ErrorCategory, code int, msg string) error {
		if ec >= godal.CE_Warning && strings.Contains(strings.ToLower(msg), "no valid pixels") {
			return fmt.Errorf("%w: %s", raster.ErrNoValidPixels, msg)
		}
		return next(ec, code, msg)
	}
}
