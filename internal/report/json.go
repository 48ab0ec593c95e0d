package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/riodiff/internal/config"
	"github.com/nao1215/riodiff/internal/model"
)

// JSONWriter outputs the complete comparison as JSON, ignored properties
// included, so downstream tools can apply their own filtering.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output, config.Ignore{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the comparison in JSON format.
func (w *JSONWriter) Write(diff *model.RasterDiff) (int, error) {
	data, err := w.Marshal(diff)
	if err != nil {
		return 0, err
	}
	return w.output.Write(data)
}

// Marshal encodes diff the way Write does, trailing newline included.
func (w *JSONWriter) Marshal(diff *model.RasterDiff) ([]byte, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(diff, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(diff)
	}

	if err != nil {
		return nil, err
	}

	// Add trailing newline for better terminal output
	return append(data, '\n'), nil
}
