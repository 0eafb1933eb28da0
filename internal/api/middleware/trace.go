package middleware

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/hanzi-strokes/internal/api/shared"
	"github.com/phrazzld/hanzi-strokes/internal/platform/logger"
)

// Trace returns middleware that tags each request with a trace ID.
//
// A valid UUID in the X-Trace-ID request header is reused; otherwise a new ID
// is generated. The ID is echoed in the response header, stored in the
// request context, and attached to a request-scoped logger derived from base
// so that every log line of the request carries trace_id. When chi's
// RequestID middleware ran first, its ID is added as request_id to every
// record logged with the request context. It should be applied early in the
// middleware chain.
func Trace(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID, ok := shared.ParseTraceID(r.Header.Get(shared.TraceIDHeader))
			if !ok {
				traceID = shared.NewTraceID()
			}

			ctx := shared.WithTraceID(r.Context(), traceID)
			if reqID := chimw.GetReqID(ctx); reqID != "" {
				ctx = logger.AppendAttrs(ctx, slog.String("request_id", reqID))
			}
			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			w.Header().Set(shared.TraceIDHeader, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
