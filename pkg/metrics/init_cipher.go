package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCipherMetrics() {
	r.KeystrokesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "enigma_keystrokes_total",
			Help: "Total number of letters sent through a device",
		},
	)

	r.MessagesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "enigma_messages_total",
			Help: "Total number of messages encrypted",
		},
		[]string{"preset", "formatting"},
	)

	r.MessageLength = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "enigma_message_length_letters",
			Help:    "Letters per encrypted message",
			Buckets: []float64{5, 25, 100, 250, 1000, 10000},
		},
	)

	r.OperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enigma_operation_duration_seconds",
			Help:    "Console command duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"operation"},
	)

	r.ErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "enigma_errors_total",
			Help: "Total number of rejected commands by error kind",
		},
		[]string{"operation", "kind"},
	)
}
