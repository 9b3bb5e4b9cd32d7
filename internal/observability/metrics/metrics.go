package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the booking flow.
type BookingMetrics struct {
	outcomesTotal      *prometheus.CounterVec
	reserveConflicts   *prometheus.CounterVec
	sideEffectFailures *prometheus.CounterVec
	reserveLatency     *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		outcomesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "booking",
			Name:      "outcomes_total",
			Help:      "Total booking attempts by outcome",
		}, []string{"outcome", "duration_minutes"}),
		reserveConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "availability",
			Name:      "reserve_conflicts_total",
			Help:      "Reservations rejected because a unit was not available",
		}, []string{"provider"}),
		sideEffectFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduling",
			Subsystem: "booking",
			Name:      "side_effect_failures_total",
			Help:      "Post-commit side effects that failed (confirmation, reminders, admin log)",
		}, []string{"effect"}),
		reserveLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "scheduling",
			Subsystem: "availability",
			Name:      "reserve_latency_seconds",
			Help:      "Latency of slot reservations against the backing store",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.outcomesTotal, m.reserveConflicts, m.sideEffectFailures, m.reserveLatency)
	return m
}

func (m *BookingMetrics) ObserveOutcome(outcome string, durationMinutes int) {
	if m == nil {
		return
	}
	m.outcomesTotal.WithLabelValues(outcome, durationLabel(durationMinutes)).Inc()
}

func (m *BookingMetrics) ObserveReserveConflict(provider string) {
	if m == nil {
		return
	}
	m.reserveConflicts.WithLabelValues(provider).Inc()
}

// ObserveSideEffectFailure counts a failed post-commit effect: "confirmation", "reminders" or "admin_log".
func (m *BookingMetrics) ObserveSideEffectFailure(effect string) {
	if m == nil {
		return
	}
	m.sideEffectFailures.WithLabelValues(effect).Inc()
}

func (m *BookingMetrics) ObserveReserveLatency(backend, result string, seconds float64) {
	if m == nil {
		return
	}
	m.reserveLatency.WithLabelValues(backend, result).Observe(seconds)
}

func durationLabel(minutes int) string {
	switch minutes {
	case 30:
		return "30"
	case 60:
		return "60"
	default:
		return "other"
	}
}
