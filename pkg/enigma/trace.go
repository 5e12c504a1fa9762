package enigma

import (
	"fmt"
	"strings"
)

// Phase is the direction of travel of the signal.
type Phase int

const (
	// PhaseEntering scans rotors by increasing index using SignalForward.
	PhaseEntering Phase = iota
	// PhaseReturning scans rotors by decreasing index using SignalBackward.
	PhaseReturning
)

func (p Phase) String() string {
	if p == PhaseReturning {
		return "returning"
	}
	return "entering"
}

// Step is one rotor crossing of a keystroke.
type Step struct {
	Rotor  int   // index in the device
	Role   Role  // role of that rotor
	Phase  Phase // direction the signal crossed it
	Input  int   // entry position
	Output int   // exit position
}

// Trace is the ordered list of rotor crossings of a keystroke.
type Trace []Step

// Outputs returns the per-rotor output positions in traversal order.
func (t Trace) Outputs() []int {
	out := make([]int, len(t))
	for i, s := range t {
		out[i] = s.Output
	}
	return out
}

// String renders the trace as a letter path, e.g. "H -0-> I -1-> R -0-> Q".
func (t Trace) String() string {
	if len(t) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteByte(byte('A' + t[0].Input))
	for _, s := range t {
		fmt.Fprintf(&sb, " -%d-> %c", s.Rotor, 'A'+s.Output)
	}
	return sb.String()
}
