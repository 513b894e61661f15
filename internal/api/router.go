package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/hackgods/clinic-scheduling/internal/appointment"
	"github.com/hackgods/clinic-scheduling/internal/directory"
	"github.com/hackgods/clinic-scheduling/internal/notification"
)

type RouterConfig struct {
	Appointments  *appointment.Service
	Notifications *notification.Service
	PgPool        Pinger
	Redis         *redis.Client
	Gatherer      prometheus.Gatherer
	Log           zerolog.Logger
	JWTSecret     string
	RateLimit     float64
	RateBurst     int
	Env           string
	Version       string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	limiter := NewRateLimiter(RateLimiterConfig{Rate: rate.Limit(cfg.RateLimit), Burst: cfg.RateBurst})
	appts := cfg.Appointments
	notes := cfg.Notifications

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/appointments/slots", listSlotsHandler(appts))

		r.Group(func(r chi.Router) {
			r.Use(Authenticate([]byte(cfg.JWTSecret)))

			r.With(limiter.Middleware).Post("/appointments", bookAppointmentHandler(appts))
			r.Get("/appointments/patient", listPatientAppointmentsHandler(appts))
			r.With(RequireRole(directory.RolePatient)).Put("/appointments/{id}/cancel", cancelAppointmentHandler(appts))
			r.With(RequireRole(directory.RoleDoctor)).Put("/appointments/{id}/status", updateStatusHandler(appts))
			r.With(RequireRole(directory.RoleDoctor)).Get("/appointments/doctor", listDoctorAppointmentsHandler(appts))

			r.Route("/admin", func(r chi.Router) {
				r.Use(RequireRole(directory.RoleAdmin))

				r.Post("/availability/{doctorId}", provisionAvailabilityHandler(appts))
				r.Get("/availability/by-doctor/{doctorId}", listAvailabilityHandler(appts))
				r.Delete("/doctors/{id}", removeDoctorHandler(appts))

				r.Get("/notifications", listNotificationsHandler(notes))
				r.Get("/notifications/unread-count", unreadCountHandler(notes))
				r.Put("/notifications/{id}/read", markNotificationReadHandler(notes))
			})
		})
	})

	return r
}
