package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"technician-dispatch-service/internal/api/handlers"
)

type Deps struct {
	Scheduler handlers.Scheduler
	Location  *time.Location
	Ready     func(context.Context) error
	Metrics   http.Handler
	// Optional; scheduling routes are unlimited when nil.
	RateLimiter *RedisRateLimiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}

	slots := &handlers.SlotHandler{Scheduler: d.Scheduler, Location: loc}
	routes := &handlers.RouteHandler{Scheduler: d.Scheduler, Location: loc}
	appts := &handlers.AppointmentHandler{Scheduler: d.Scheduler}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestContext)
	r.Use(loggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(d.Ready))
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Middleware)
		}
		r.Post("/slots/search", slots.Search)
		r.Post("/slots/suggest", slots.Suggest)
		r.Get("/technicians/{technicianID}/route", routes.Get)
		r.Post("/appointments", appts.Create)
	})

	return otelhttp.NewHandler(r, "dispatch-api",
		otelhttp.WithSpanNameFormatter(func(_ string, req *http.Request) string {
			return req.Method + " " + req.URL.Path
		}),
	)
}
