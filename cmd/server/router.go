package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/hanzi-strokes/internal/api"
	apiMiddleware "github.com/phrazzld/hanzi-strokes/internal/api/middleware"
	"github.com/phrazzld/hanzi-strokes/internal/redact"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	practiceHandler := api.NewPracticeHandler(app.practiceService, app.logger)
	r.Route("/api", practiceHandler.Routes)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", redact.Attr(err))
		}
	})

	return r
}
