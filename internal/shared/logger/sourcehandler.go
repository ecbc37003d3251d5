package logger

import (
	"context"
	"log/slog"
	"runtime"
)

// sourceHandler attaches the caller location only for the configured levels.
// The wrapped handler must be built with AddSource: false.
type sourceHandler struct {
	next   slog.Handler
	levels map[slog.Level]bool
}

// NewSourceHandler wraps next so records at one of levels carry a source attribute.
func NewSourceHandler(next slog.Handler, levels ...slog.Level) slog.Handler {
	set := make(map[slog.Level]bool, len(levels))
	for _, level := range levels {
		set[level] = true
	}
	return &sourceHandler{next: next, levels: set}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.levels[r.Level] {
		// skip runtime.Callers, Handle and the slog frame
		var pcs [1]uintptr
		runtime.Callers(3, pcs[:])
		frame, _ := runtime.CallersFrames(pcs[:]).Next()
		r.AddAttrs(slog.Any(slog.SourceKey, &slog.Source{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		}))
	}
	return h.next.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{next: h.next.WithAttrs(attrs), levels: h.levels}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{next: h.next.WithGroup(name), levels: h.levels}
}
