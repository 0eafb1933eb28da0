package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEventEmitter delivers feedback events to the handlers registered
// in this process. Delivery is synchronous and follows registration order.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	log      *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter returns an emitter with no handlers. A nil logger
// falls back to slog.Default.
func NewInMemoryEventEmitter(log *slog.Logger) *InMemoryEventEmitter {
	if log == nil {
		log = slog.Default()
	}
	return &InMemoryEventEmitter{
		log: log.With(slog.String("component", "feedback_emitter")),
	}
}

// RegisterHandler subscribes handler to every subsequent event.
func (e *InMemoryEventEmitter) RegisterHandler(handler EventHandler) {
	e.mu.Lock()
	e.handlers = append(e.handlers, handler)
	n := len(e.handlers)
	e.mu.Unlock()

	e.log.Debug("feedback handler registered", slog.Int("handler_count", n))
}

// EmitEvent hands event to each handler in turn. A failing handler does not
// stop delivery to the rest; the first failure is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *FeedbackEvent) error {
	handlers := e.snapshot()
	log := e.log.With(
		slog.String("event_id", event.ID.String()),
		slog.String("event_type", event.Type),
	)
	if len(handlers) == 0 {
		log.Debug("feedback event dropped, no handlers")
		return nil
	}

	var firstErr error
	for i, h := range handlers {
		err := h.HandleEvent(ctx, event)
		if err == nil {
			continue
		}
		log.Error("feedback handler failed",
			slog.Int("handler_index", i),
			slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// snapshot copies the handler list so handlers run without the lock held.
func (e *InMemoryEventEmitter) snapshot() []EventHandler {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]EventHandler(nil), e.handlers...)
}
