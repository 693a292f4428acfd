// Package router assembles the HTTP surface: public health and metrics,
// the booking API, and operator-only internal triggers.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazelbrook/bookline/internal/http/handlers"
	httpmiddleware "github.com/hazelbrook/bookline/internal/http/middleware"
	"github.com/hazelbrook/bookline/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	Availability       *handlers.AvailabilityHandler
	Bookings           *handlers.BookingHandler
	Hours              *handlers.HoursHandler
	Sweep              *handlers.SweepHandler
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/providers/{providerID}", func(provider chi.Router) {
			if cfg.Availability != nil {
				provider.Get("/availability", cfg.Availability.GetSlots)
			}
			if cfg.Bookings != nil {
				provider.Get("/bookings", cfg.Bookings.ListForProvider)
			}
			if cfg.Hours != nil {
				provider.Get("/hours", cfg.Hours.List)
				provider.Put("/hours/{weekday}", cfg.Hours.Upsert)
				provider.Delete("/hours/{weekday}", cfg.Hours.Delete)
			}
		})

		if cfg.Bookings != nil {
			api.Route("/bookings", func(bookings chi.Router) {
				bookings.Get("/{bookingID}", cfg.Bookings.Get)
				// Mutations carry the acting identity.
				bookings.Group(func(acting chi.Router) {
					acting.Use(httpmiddleware.RequireActor)
					acting.Post("/", cfg.Bookings.Create)
					acting.Post("/{bookingID}/status", cfg.Bookings.Transition)
				})
			})
		}
	})

	// Operator-only triggers; deploy behind the internal load balancer.
	if cfg.Sweep != nil {
		r.Post("/internal/reminders/sweep", cfg.Sweep.Trigger)
	}

	return r
}
