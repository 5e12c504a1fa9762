package metrics

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Key change sources.
const (
	KeySourceManual  = "manual"
	KeySourceRandom  = "random"
	KeySourceDerived = "derived"
)

// RecordMessage records one encrypted message of length letters.
func (r *Registry) RecordMessage(preset, formatting string, length int, duration time.Duration) {
	r.KeystrokesTotal.Add(float64(length))
	r.MessagesTotal.WithLabelValues(preset, formatting).Inc()
	r.MessageLength.Observe(float64(length))
	r.OperationDuration.WithLabelValues("encrypt").Observe(duration.Seconds())
}

// RecordTrace records one traced keystroke.
func (r *Registry) RecordTrace(duration time.Duration) {
	r.KeystrokesTotal.Inc()
	r.TracesTotal.Inc()
	r.OperationDuration.WithLabelValues("trace").Observe(duration.Seconds())
}

// RecordOperation records the duration of any other command.
func (r *Registry) RecordOperation(operation string, duration time.Duration) {
	r.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordKeyChange records an accepted key from source.
func (r *Registry) RecordKeyChange(source string) {
	r.KeyChangesTotal.WithLabelValues(source).Inc()
}

// RecordError records a rejected command.
func (r *Registry) RecordError(operation, kind string) {
	r.ErrorsTotal.WithLabelValues(operation, kind).Inc()
}

// RecordForge records a forged device.
func (r *Registry) RecordForge() {
	r.DevicesForgedTotal.Inc()
}

// SetActivePreset flags preset as the one in use and clears the previous one.
func (r *Registry) SetActivePreset(preset string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != "" && r.active != preset {
		r.ActivePreset.WithLabelValues(r.active).Set(0)
	}
	r.ActivePreset.WithLabelValues(preset).Set(1)
	r.PresetSelectionsTotal.WithLabelValues(preset).Inc()
	r.active = preset
}

// UpdateSystemMetrics refreshes uptime and Go runtime gauges.
func (r *Registry) UpdateSystemMetrics() {
	r.UptimeSeconds.Set(time.Since(r.started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

// Handler serves the registry in the Prometheus text format. System gauges
// are refreshed on every scrape.
func (r *Registry) Handler() http.Handler {
	h := promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.UpdateSystemMetrics()
		h.ServeHTTP(w, req)
	})
}
