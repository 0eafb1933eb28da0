package logger

import (
	"context"
	"log/slog"
)

// ContextHandler is a slog.Handler that adds the attributes attached to the
// record's context (see AppendAttrs), such as the request trace ID.
type ContextHandler struct {
	handler slog.Handler
}

var _ slog.Handler = (*ContextHandler)(nil)

// NewContextHandler wraps h.
func NewContextHandler(h slog.Handler) *ContextHandler {
	return &ContextHandler{handler: h}
}

// Enabled implements the slog.Handler interface.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs implements the slog.Handler interface.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{handler: h.handler.WithAttrs(attrs)}
}

// WithGroup implements the slog.Handler interface.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{handler: h.handler.WithGroup(name)}
}

// Handle implements the slog.Handler interface.
func (h *ContextHandler) Handle(ctx context.Context, record slog.Record) error {
	if attrs := contextAttrs(ctx); len(attrs) > 0 {
		record = record.Clone()
		record.AddAttrs(attrs...)
	}
	return h.handler.Handle(ctx, record)
}
