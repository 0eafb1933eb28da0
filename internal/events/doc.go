// Package events delivers practice feedback to interested components.
//
// The practice service emits a FeedbackEvent after every stroke comparison
// (EventTypeVerdict) and after every scheduling change (EventTypeInterval).
// Emitters fan events out to registered handlers without the service knowing
// who listens; LogHandler records them through slog.
//
// The primary components are:
// - FeedbackEvent: envelope with an ID, a type and a JSON payload
// - VerdictPayload and IntervalPayload: the payloads of the two event types
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
package events
