package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/stroke"
)

// Event types
const (
	EventTypeVerdict  = "stroke.verdict"
	EventTypeInterval = "card.interval"
)

// FeedbackEvent is the envelope delivered to handlers.
type FeedbackEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the EventType constants
	Type string `json:"type"`

	// Payload contains the type-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *FeedbackEvent) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewFeedbackEvent creates a FeedbackEvent with the specified type and payload.
func NewFeedbackEvent(eventType string, payload any) (*FeedbackEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &FeedbackEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// VerdictPayload describes the outcome of judging one drawn stroke.
type VerdictPayload struct {
	Character   string         `json:"character"`
	StrokeIndex int            `json:"stroke_index"`
	Profile     stroke.Profile `json:"profile"`
	Verdict     stroke.Verdict `json:"verdict"`
}

// NewVerdictEvent wraps p in an EventTypeVerdict event.
func NewVerdictEvent(p VerdictPayload) (*FeedbackEvent, error) {
	return NewFeedbackEvent(EventTypeVerdict, p)
}

// IntervalPayload describes a card's schedule after a rating or postponement.
// Rating is empty for postponements.
type IntervalPayload struct {
	CardID       string        `json:"card_id"`
	Rating       domain.Rating `json:"rating,omitempty"`
	IntervalDays int           `json:"interval_days"`
	EaseFactor   float64       `json:"ease_factor"`
	Lapses       int           `json:"lapses"`
	DueAt        time.Time     `json:"due_at"`
}

// NewIntervalEvent wraps the schedule of state in an EventTypeInterval event.
func NewIntervalEvent(state *domain.CardState, rating domain.Rating) (*FeedbackEvent, error) {
	return NewFeedbackEvent(EventTypeInterval, IntervalPayload{
		CardID:       state.CardID,
		Rating:       rating,
		IntervalDays: state.IntervalDays,
		EaseFactor:   state.EaseFactor,
		Lapses:       state.Lapses,
		DueAt:        state.DueAt,
	})
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *FeedbackEvent) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event *FeedbackEvent) error

// HandleEvent calls f(ctx, event).
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *FeedbackEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *FeedbackEvent) error
}
