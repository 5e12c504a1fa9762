package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSessionMetrics() {
	r.ActivePreset = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "enigma_active_preset",
			Help: "1 for the preset the session is using, 0 otherwise",
		},
		[]string{"preset"},
	)

	r.PresetSelectionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "enigma_preset_selections_total",
			Help: "Total number of devices built per preset",
		},
		[]string{"preset"},
	)

	r.KeyChangesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "enigma_key_changes_total",
			Help: "Total number of accepted key changes by source",
		},
		[]string{"source"},
	)

	r.DevicesForgedTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "enigma_devices_forged_total",
			Help: "Total number of random devices forged",
		},
	)

	r.TracesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "enigma_traces_total",
			Help: "Total number of traced keystrokes",
		},
	)
}
