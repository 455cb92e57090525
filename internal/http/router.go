package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/movie-ticket-booking/internal/idempotency"
	"github.com/robertarktes/movie-ticket-booking/internal/observability"
)

// SetupRouter wires the booking pages and operational endpoints. rl and idemp
// are optional; nil disables the corresponding middleware.
func SetupRouter(h *Handlers, logger observability.Logger, rl Limiter, perMinute int, idemp *idempotency.Idempotency) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	if rl != nil {
		r.Use(RateLimitMiddleware(rl, perMinute))
	}
	if idemp != nil {
		r.Use(IdempotencyMiddleware(idemp))
	}

	r.Get("/", h.Home)
	r.Post("/book-ui", h.BookTicket)
	r.Post("/cancel-ui", h.CancelTicket)
	r.Post("/update-ui", h.UpdateTicket)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
