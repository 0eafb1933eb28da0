package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
)

// LogHandler writes every event it receives to a structured log. The
// request-scoped logger from ctx is preferred so events carry the trace ID.
type LogHandler struct {
	logger *slog.Logger
	level  slog.Level
}

var _ EventHandler = (*LogHandler)(nil)

// NewLogHandler creates a LogHandler logging at level.
// If log is nil, a default logger will be used.
func NewLogHandler(log *slog.Logger, level slog.Level) *LogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LogHandler{
		logger: log.With(slog.String("component", "feedback_log")),
		level:  level,
	}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *FeedbackEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)

	attrs := []slog.Attr{
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
	}

	switch event.Type {
	case EventTypeVerdict:
		var p VerdictPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		attrs = append(attrs,
			slog.String("character", p.Character),
			slog.Int("stroke_index", p.StrokeIndex),
			slog.String("profile", p.Profile.String()),
			slog.String("verdict", string(p.Verdict.Kind)),
			slog.Float64("score", p.Verdict.Score))
	case EventTypeInterval:
		var p IntervalPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return err
		}
		attrs = append(attrs,
			slog.String("card_id", p.CardID),
			slog.String("rating", string(p.Rating)),
			slog.Int("interval_days", p.IntervalDays),
			slog.Float64("ease_factor", p.EaseFactor),
			slog.Time("due_at", p.DueAt))
	}

	log.LogAttrs(ctx, h.level, "feedback event", attrs...)
	return nil
}
