package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"helphive-gateway/internal/handlers"
	"helphive-gateway/internal/metrics"
	"helphive-gateway/internal/middleware"
)

const (
	requestTimeout = 15 * time.Second
	maxBodyBytes   = 512 * 1024
)

// NewRouter wires the HTTP surface: normalization, prioritization,
// usage introspection, health and metrics.
func NewRouter(
	logger *zap.Logger,
	requestHandler *handlers.RequestHandler,
	usageHandler *handlers.UsageHandler,
) http.Handler {
	r := chi.NewRouter()

	r.Use(metrics.Middleware)
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.LoggingContext(logger))
	r.Use(middleware.Recoverer())
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.MaxBodySize(maxBodyBytes))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/requests/normalize", requestHandler.Normalize)
		r.Post("/tasks/prioritize", requestHandler.Prioritize)
		r.Get("/usage", usageHandler.Usage)
		r.Post("/usage/reset", usageHandler.Reset)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", metrics.Handler())

	return r
}
