package health

import (
	"encoding/json"
	"net/http"
)

// LivenessHandler serves CheckLiveness. Degraded still answers 200.
func (hc *HealthChecker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, hc.CheckLiveness(), StatusDegraded)
	}
}

// ReadinessHandler serves CheckReadiness. Anything but healthy answers 503.
func (hc *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, hc.CheckReadiness(), StatusHealthy)
	}
}

// writeResponse answers 200 when the status is healthy or equal to worstOK.
func writeResponse(w http.ResponseWriter, response Response, worstOK Status) {
	w.Header().Set("Content-Type", "application/json")
	if response.Status == StatusHealthy || response.Status == worstOK {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(response)
}
