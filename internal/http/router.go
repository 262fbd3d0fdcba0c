package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robertarktes/cinema-booking/internal/observability"
	"github.com/robertarktes/cinema-booking/internal/ratelimit"
)

func SetupRouter(h *Handlers, logger observability.Logger, rl *ratelimit.RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(RateLimitMiddleware(rl))

	r.Get("/movies/all", h.ListMovies)
	r.Post("/movies", h.CreateMovie)
	r.Post("/movies/update/{movieTitle}", h.UpdateMovie)
	r.Delete("/movies/{movieTitle}", h.DeleteMovie)

	r.Get("/showtimes/{showtimeId}", h.GetShowtime)
	r.Post("/showtimes", h.CreateShowtime)
	r.Post("/showtimes/update/{showtimeId}", h.UpdateShowtime)
	r.Delete("/showtimes/{showtimeId}", h.DeleteShowtime)

	r.Post("/bookings", h.CreateBooking)

	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	return r
}
