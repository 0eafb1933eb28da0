package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/hanzi-strokes/internal/events"
)

// MockEventEmitter implements events.EventEmitter and records every event.
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.FeedbackEvent) error

	// Err is returned when EmitEventFn is nil.
	Err error

	mu     sync.Mutex
	events []*events.FeedbackEvent
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.FeedbackEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	return m.Err
}

// Events returns the emitted events in order.
func (m *MockEventEmitter) Events() []*events.FeedbackEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.FeedbackEvent(nil), m.events...)
}

// EventsOfType returns the emitted events with the given type.
func (m *MockEventEmitter) EventsOfType(eventType string) []*events.FeedbackEvent {
	var out []*events.FeedbackEvent
	for _, e := range m.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
