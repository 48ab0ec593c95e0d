package report

import (
	"io"

	"github.com/nao1215/riodiff/internal/config"
	"github.com/nao1215/riodiff/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the comparison to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(diff *model.RasterDiff) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	ignore config.Ignore
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, ignore config.Ignore) baseWriter {
	return baseWriter{output: output, ignore: ignore}
}

// HasDifferences reports whether the comparison shows any difference once
// the ignored properties are left out. Identical files never differ.
func HasDifferences(diff *model.RasterDiff, ignore config.Ignore) bool {
	if diff == nil || diff.Identical {
		return false
	}
	if len(propertySections(diff, ignore)) > 0 {
		return true
	}
	if ignore.PixelValues {
		return false
	}
	return !diff.Compatible || diff.PixelDifferences()
}
