package log

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TeeHandler fans records out to several handlers.
type TeeHandler struct {
	handlers []slog.Handler
}

// NewTeeHandler creates a handler that forwards to all given handlers.
func NewTeeHandler(handlers ...slog.Handler) *TeeHandler {
	return &TeeHandler{handlers: handlers}
}

func (t *TeeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *TeeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (t *TeeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &TeeHandler{handlers: next}
}

func (t *TeeHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		next[i] = h.WithGroup(name)
	}
	return &TeeHandler{handlers: next}
}

// bufferHandler is the slog.Handler that feeds a Buffer. The "component"
// attribute becomes the entry source; remaining attributes are folded into
// the message text.
type bufferHandler struct {
	buf   *Buffer
	attrs []slog.Attr
}

// Handler returns a slog.Handler writing into the buffer.
func (b *Buffer) Handler() slog.Handler {
	return &bufferHandler{buf: b}
}

func (h *bufferHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *bufferHandler) Handle(_ context.Context, r slog.Record) error {
	source := "pidog"
	var parts []string

	collect := func(a slog.Attr) {
		if a.Key == "component" {
			source = a.Value.String()
			return
		}
		parts = append(parts, fmt.Sprintf("%s=%v", a.Key, a.Value.Any()))
	}

	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	msg := r.Message
	if len(parts) > 0 {
		msg = msg + " " + strings.Join(parts, " ")
	}

	h.buf.Append(Entry{
		Timestamp: float64(r.Time.UnixNano()) / 1e9,
		Level:     levelName(r.Level),
		Message:   msg,
		Source:    source,
	})
	return nil
}

func (h *bufferHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &bufferHandler{buf: h.buf, attrs: merged}
}

func (h *bufferHandler) WithGroup(string) slog.Handler {
	return h
}

func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARNING"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
