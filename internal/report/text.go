package report

import (
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nao1215/riodiff/internal/config"
	"github.com/nao1215/riodiff/internal/model"
)

// TextWriter outputs the comparison as a terminal diff: every unequal
// property prints "< Label: base" in red and "> Label: test" in green,
// followed by a blank line. Identical files print nothing.
type TextWriter struct {
	baseWriter

	base *color.Color
	test *color.Color
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithColor forces colored output on or off. Without it the writer follows
// color.NoColor, which is set when stdout is not a terminal.
func WithColor(enabled bool) TextWriterOption {
	return func(w *TextWriter) {
		for _, c := range []*color.Color{w.base, w.test} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewTextWriter creates a TextWriter that outputs to the given writer.
func NewTextWriter(output io.Writer, ignore config.Ignore, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{
		baseWriter: newBaseWriter(output, ignore),
		base:       color.New(color.FgRed),
		test:       color.New(color.FgGreen),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the comparison in diff format.
func (w *TextWriter) Write(diff *model.RasterDiff) (int, error) {
	if diff.Identical {
		return 0, nil
	}

	var sb strings.Builder

	for _, s := range propertySections(diff, w.ignore) {
		w.base.Fprintf(&sb, "< %s: %s\n", s.Label, s.Base)
		w.test.Fprintf(&sb, "> %s: %s\n", s.Label, s.Test)
		sb.WriteString("\n")
	}

	if !w.ignore.PixelValues {
		w.writePixelValues(&sb, diff)
	}

	return io.WriteString(w.output, sb.String())
}

// writePixelValues writes the per-band pixel statistics or the
// incompatibility notice.
func (w *TextWriter) writePixelValues(sb *strings.Builder, diff *model.RasterDiff) {
	if !diff.Compatible {
		w.base.Fprintln(sb, "Pixel Values: Rasters are incompatible")
		return
	}
	for _, bd := range pixelSections(diff) {
		w.base.Fprintf(sb, "Pixel Values (Band %d): \n", bd.Band)
		w.base.Fprintf(sb, "\tDifferent pixels: %d (%s)\n", bd.Stats.DiffCount, formatPercent(bd.Stats.DiffPercent))
		w.base.Fprintf(sb, "\tMax diff: %s\n", formatFloat(bd.Stats.MaxDiff))
		w.base.Fprintf(sb, "\tRMSE: %s\n", formatFloat(bd.Stats.RMSE))
	}
}
