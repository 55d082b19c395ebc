package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"voltbook/internal/booking"
)

const metricPrefix = "voltbook_"

const (
	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	createTotal   *prometheus.CounterVec
	createLatency *prometheus.HistogramVec

	transitionTotal   *prometheus.CounterVec
	transitionLatency *prometheus.HistogramVec

	conflictsTotal prometheus.Counter
)

// Init registers the engine metrics on the default registry. Safe to call
// more than once.
func Init() {
	registerOnce.Do(func() {
		createTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "booking_creates_total",
				Help: "Total booking create attempts by result",
			},
			[]string{"result"},
		)
		createLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "booking_create_latency_seconds",
				Help:    "Booking create latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		transitionTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "booking_transitions_total",
				Help: "Total booking status transitions by target and result",
			},
			[]string{"target", "result"},
		)
		transitionLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "booking_transition_latency_seconds",
				Help:    "Booking transition latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"target"},
		)
		conflictsTotal = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "booking_conflicts_total",
				Help: "Booking create attempts rejected for overlapping an existing booking",
			},
		)

		prometheus.MustRegister(createTotal, createLatency, transitionTotal, transitionLatency, conflictsTotal)
	})
}

func ObserveCreate(err error, d time.Duration) {
	if createTotal == nil {
		return
	}
	result := resultFor(err)
	createTotal.WithLabelValues(result).Inc()
	createLatency.WithLabelValues(result).Observe(d.Seconds())
	if errors.Is(err, booking.ErrConflict) {
		conflictsTotal.Inc()
	}
}

func ObserveTransition(target string, err error, d time.Duration) {
	if transitionTotal == nil {
		return
	}
	transitionTotal.WithLabelValues(target, resultFor(err)).Inc()
	transitionLatency.WithLabelValues(target).Observe(d.Seconds())
}

func resultFor(err error) string {
	if err != nil {
		return resultError
	}
	return resultSuccess
}
