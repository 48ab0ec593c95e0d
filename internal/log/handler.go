package log

import (
	"context"
	"io"
	"log/slog"
	"unicode/utf8"
)

// DefaultMaxValueLen is the longest string attribute value, in runes, that
// CompactHandler passes through unchanged.
const DefaultMaxValueLen = 200

// ellipsis marks a shortened value.
const ellipsis = "..."

// CompactHandler wraps an slog.Handler and shortens string attribute values
// longer than a limit before passing records on.
type CompactHandler struct {
	// handler is the underlying slog handler that receives shortened records.
	handler slog.Handler

	// maxLen is the longest value kept unchanged.
	maxLen int
}

// NewCompactHandler creates a CompactHandler wrapping handler.
// If handler is nil, slog.Default().Handler() is used; a non-positive maxLen
// means DefaultMaxValueLen.
func NewCompactHandler(handler slog.Handler, maxLen int) *CompactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxValueLen
	}
	return &CompactHandler{handler: handler, maxLen: maxLen}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *CompactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle shortens the record's attributes and passes it to the underlying handler.
func (h *CompactHandler) Handle(ctx context.Context, r slog.Record) error {
	compact := slog.NewRecord(r.Time, r.Level, h.shorten(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		compact.AddAttrs(h.compactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, compact)
}

// WithAttrs returns a new handler with the given attributes added.
func (h *CompactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	compact := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		compact[i] = h.compactAttr(a)
	}
	return &CompactHandler{handler: h.handler.WithAttrs(compact), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *CompactHandler) WithGroup(name string) slog.Handler {
	return &CompactHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// compactAttr shortens a single attribute, recursively handling groups.
func (h *CompactHandler) compactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindGroup:
		attrs := a.Value.Group()
		compact := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			compact[i] = h.compactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(compact...)}
	case slog.KindString:
		return slog.String(a.Key, h.shorten(a.Value.String()))
	default:
		return a
	}
}

// shorten cuts s to maxLen runes, ellipsis included.
func (h *CompactHandler) shorten(s string) string {
	if utf8.RuneCountInString(s) <= h.maxLen {
		return s
	}
	keep := max(h.maxLen-len(ellipsis), 0)
	runes := []rune(s)
	return string(runes[:keep]) + ellipsis
}

// New creates a text logger whose string attributes are shortened.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewCompactHandler(textHandler, DefaultMaxValueLen))
}

// Discard returns a logger that drops everything. Tests use it to keep
// output quiet.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
