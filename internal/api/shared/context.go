package shared

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ContextKey is the type of the request context keys set by this package.
type ContextKey string

const (
	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDHeader carries the trace ID on requests and responses.
	TraceIDHeader = "X-Trace-ID"

	// TraceIDLength is the number of hex characters in a trace ID.
	TraceIDLength = 32
)

// SetTraceID adds a freshly generated trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, NewTraceID())
}

// WithTraceID adds traceID to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDKey, traceID)
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// NewTraceID returns a random UUID as 32 lowercase hex characters. If the
// random source fails it falls back to a time-based ID, never a static value.
func NewTraceID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		slog.Error("failed to generate random trace ID",
			slog.String("error", err.Error()),
			slog.String("fallback", "time-based generation"))
		return fallbackTraceID()
	}
	return strings.ReplaceAll(id.String(), "-", "")
}

// ParseTraceID accepts a client-supplied trace ID if it is a UUID, in either
// hyphenated or plain hex form, and returns it normalized.
func ParseTraceID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return strings.ReplaceAll(id.String(), "-", ""), true
}

func fallbackTraceID() string {
	b := make([]byte, TraceIDLength/2)
	now := time.Now()
	binary.BigEndian.PutUint64(b[:8], uint64(now.UnixNano()))
	binary.BigEndian.PutUint32(b[8:12], uint32(now.Nanosecond()))
	binary.BigEndian.PutUint32(b[12:16], uint32(now.Unix()))
	return hex.EncodeToString(b)
}
