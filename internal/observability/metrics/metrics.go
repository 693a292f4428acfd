package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters for the booking lifecycle.
type BookingMetrics struct {
	createdTotal     *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	slotQueriesTotal prometheus.Counter
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		createdTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookline",
			Subsystem: "booking",
			Name:      "created_total",
			Help:      "Total booking creation attempts",
		}, []string{"result"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookline",
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Total lifecycle transition attempts",
		}, []string{"target", "result"}),
		slotQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookline",
			Subsystem: "availability",
			Name:      "slot_queries_total",
			Help:      "Total availability queries served",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.createdTotal, m.transitionsTotal, m.slotQueriesTotal)
	return m
}

func (m *BookingMetrics) ObserveCreated(result string) {
	if m == nil {
		return
	}
	m.createdTotal.WithLabelValues(result).Inc()
}

func (m *BookingMetrics) ObserveTransition(target, result string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(target, result).Inc()
}

func (m *BookingMetrics) ObserveSlotQuery() {
	if m == nil {
		return
	}
	m.slotQueriesTotal.Inc()
}

// SweepMetrics exposes counters/histograms for the reminder sweep.
type SweepMetrics struct {
	runsTotal      *prometheus.CounterVec
	remindersTotal prometheus.Counter
	runDuration    prometheus.Histogram
}

func NewSweepMetrics(reg prometheus.Registerer) *SweepMetrics {
	m := &SweepMetrics{
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bookline",
			Subsystem: "reminder",
			Name:      "sweep_runs_total",
			Help:      "Total reminder sweep executions",
		}, []string{"result"}),
		remindersTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bookline",
			Subsystem: "reminder",
			Name:      "reminders_sent_total",
			Help:      "Total reminders dispatched and recorded",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bookline",
			Subsystem: "reminder",
			Name:      "sweep_duration_seconds",
			Help:      "Duration of reminder sweep runs",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.runsTotal, m.remindersTotal, m.runDuration)
	return m
}

func (m *SweepMetrics) ObserveRun(result string, processed int, seconds float64) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(result).Inc()
	m.remindersTotal.Add(float64(processed))
	m.runDuration.Observe(seconds)
}
