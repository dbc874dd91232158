package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"technician-dispatch-service/internal/domain"
)

// SchedulingMetrics exposes counters/histograms for slot searches,
// better-slot advice, bookings and route reports.
type SchedulingMetrics struct {
	searchesTotal    *prometheus.CounterVec
	searchLatency    prometheus.Histogram
	suggestionsTotal *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
	routeDistanceKm  prometheus.Histogram
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		searchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "slots",
			Name:      "searches_total",
			Help:      "Slot searches by outcome",
		}, []string{"outcome"}),
		searchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dispatch",
			Subsystem: "slots",
			Name:      "search_latency_seconds",
			Help:      "Latency of slot searches including snapshot loading",
			Buckets:   prometheus.DefBuckets,
		}),
		suggestionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "slots",
			Name:      "suggestions_total",
			Help:      "Better-slot checks by outcome",
		}, []string{"outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dispatch",
			Subsystem: "appointments",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		routeDistanceKm: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dispatch",
			Subsystem: "routes",
			Name:      "estimated_distance_km",
			Help:      "Estimated road distance of reported technician days",
			Buckets:   []float64{5, 10, 25, 50, 100, 200, 400},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.searchesTotal, m.searchLatency, m.suggestionsTotal, m.bookingsTotal, m.routeDistanceKm)
	return m
}

// Outcome maps an error from the scheduling core to a low-cardinality label.
func Outcome(err error) string {
	var (
		absent  *domain.TechnicianAbsentError
		full    *domain.NoAvailableSlotError
		invalid *domain.InvalidDurationError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &absent):
		return "technician_absent"
	case errors.As(err, &full):
		return "no_available_slot"
	case errors.As(err, &invalid):
		return "invalid_duration"
	case errors.Is(err, domain.ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, domain.ErrOutsideWorkingWindow):
		return "outside_working_window"
	default:
		return "error"
	}
}

func (m *SchedulingMetrics) ObserveSearch(err error, seconds float64) {
	if m == nil {
		return
	}
	m.searchesTotal.WithLabelValues(Outcome(err)).Inc()
	m.searchLatency.Observe(seconds)
}

func (m *SchedulingMetrics) ObserveSuggestion(found bool, err error) {
	if m == nil {
		return
	}
	outcome := Outcome(err)
	if err == nil {
		outcome = "no_better_slot"
		if found {
			outcome = "better_slot"
		}
	}
	m.suggestionsTotal.WithLabelValues(outcome).Inc()
}

func (m *SchedulingMetrics) ObserveBooking(err error) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(Outcome(err)).Inc()
}

func (m *SchedulingMetrics) ObserveRoute(distanceKm float64) {
	if m == nil {
		return
	}
	m.routeDistanceKm.Observe(distanceKm)
}
