package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clinic"

// Metrics holds the booking core counters.
type Metrics struct {
	Bookings          *prometheus.CounterVec
	StatusChanges     *prometheus.CounterVec
	SlotQueries       prometheus.Counter
	NotificationFails prometheus.Counter
	LockLatency       prometheus.Histogram
}

// New creates the metrics and registers them on reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		StatusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_status_changes_total",
			Help:      "Appointment status changes by target status",
		}, []string{"status"}),
		SlotQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slot_queries_total",
			Help:      "Number of slot listings computed",
		}),
		NotificationFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Notifications that could not be recorded",
		}),
		LockLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "booking_critical_section_seconds",
			Help:      "Time spent inside the slot lock",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
	}

	reg.MustRegister(m.Bookings, m.StatusChanges, m.SlotQueries, m.NotificationFails, m.LockLatency)
	return m
}

// Discard returns metrics bound to a private registry.
func Discard() *Metrics {
	return New(prometheus.NewRegistry())
}
