package health

import (
	"runtime"
)

// SelfTestCheck reports unhealthy while selfTest fails. The catalog
// self-test builds every preset and round-trips a probe message.
func SelfTestCheck(selfTest func() error) CheckFunc {
	return func() Check {
		if err := selfTest(); err != nil {
			return Check{Status: StatusUnhealthy, Message: err.Error()}
		}
		return Check{Status: StatusHealthy, Message: "All presets passed"}
	}
}

// MemoryCheck reports degraded when more than 90% of the memory obtained
// from the OS is allocated.
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		alloc, sys := getUsage()
		check := Check{
			Details: map[string]any{
				"alloc_bytes": alloc,
				"sys_bytes":   sys,
			},
		}

		if sys > 0 && float64(alloc)/float64(sys) > 0.9 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}

// RuntimeMemory reads the current Go heap figures for MemoryCheck.
func RuntimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
