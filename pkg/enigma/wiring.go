package enigma

import (
	"math/rand/v2"
	"strings"
)

// Connection is one electrical path through a wheel, from the contact at
// Start on the entry side to the contact at End on the exit side.
type Connection struct {
	Start int
	End   int
}

// Offset returns the rotational distance from Start to End, in [0, Size).
func (c Connection) Offset() int {
	return mod(c.End - c.Start)
}

// Wiring is a permutation of the alphabet: 26 connections indexed by their
// start position, plus the inverse view computed once at construction.
//
// The zero value is not a valid Wiring; use one of the constructors.
type Wiring struct {
	connections [Size]Connection
	inverse     [Size]int
}

// WiringFromString builds a wiring from a 26-letter string: the i-th letter
// is where position i is connected to. Every symbol must appear exactly once.
func WiringFromString(s string) (Wiring, error) {
	if len(s) != Size {
		return Wiring{}, NewError("WiringFromString").Wiring(s).
			Contextf("length %d, want %d", len(s), Size).Cause(ErrInvalidMapping).Err()
	}

	var ends [Size]int
	for i, r := range s {
		// len(s) == Size, so a multi-byte rune also means a foreign symbol
		if !IsSymbol(r) {
			return Wiring{}, NewError("WiringFromString").Wiring(s).
				Contextf("%q is not an alphabet symbol", r).Cause(ErrInvalidMapping).Err()
		}
		ends[i] = int(r - 'A')
	}

	w, dup, ok := newWiring(ends)
	if !ok {
		return Wiring{}, NewError("WiringFromString").Wiring(s).
			Contextf("symbol %c repeated", rune('A'+dup)).Cause(ErrInvalidMapping).Err()
	}
	return w, nil
}

// IdentityWiring connects every position to itself.
func IdentityWiring() Wiring {
	var ends [Size]int
	for i := range ends {
		ends[i] = i
	}
	w, _, _ := newWiring(ends)
	return w
}

// FullReverseWiring connects position i to position 25-i (A to Z, B to Y...).
func FullReverseWiring() Wiring {
	var ends [Size]int
	for i := range ends {
		ends[i] = Size - 1 - i
	}
	w, _, _ := newWiring(ends)
	return w
}

// RandomWiring returns a uniformly shuffled wiring (Fisher-Yates).
func RandomWiring(rng *rand.Rand) Wiring {
	var ends [Size]int
	for i := range ends {
		ends[i] = i
	}
	for i := Size - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		ends[i], ends[j] = ends[j], ends[i]
	}
	w, _, _ := newWiring(ends)
	return w
}

// RandomReflectorWiring returns a random involution without fixed points:
// the 26 positions are paired into 13 swaps, as on a historical reflector.
func RandomReflectorWiring(rng *rand.Rand) Wiring {
	order := rng.Perm(Size)
	var ends [Size]int
	for i := 0; i < Size; i += 2 {
		a, b := order[i], order[i+1]
		ends[a], ends[b] = b, a
	}
	w, _, _ := newWiring(ends)
	return w
}

// newWiring validates ends as a permutation and builds the inverse table.
// On failure it returns the first repeated end position.
func newWiring(ends [Size]int) (Wiring, int, bool) {
	var w Wiring
	var seen [Size]bool
	for start, end := range ends {
		if end < 0 || end >= Size {
			return Wiring{}, 0, false
		}
		if seen[end] {
			return Wiring{}, end, false
		}
		seen[end] = true
		w.connections[start] = Connection{Start: start, End: end}
		w.inverse[end] = start
	}
	return w, 0, true
}

// Forward returns the exit position for a signal entering at position.
// position must be in [0, Size).
func (w Wiring) Forward(position int) int {
	return w.connections[position].End
}

// Backward returns the entry position whose signal exits at position.
// position must be in [0, Size).
func (w Wiring) Backward(position int) int {
	return w.inverse[position]
}

// Connection returns the connection starting at position.
func (w Wiring) Connection(position int) Connection {
	return w.connections[position]
}

// Connections returns a copy of all connections in start order.
func (w Wiring) Connections() []Connection {
	out := make([]Connection, Size)
	copy(out, w.connections[:])
	return out
}

// IsInvolution reports whether Forward(Forward(x)) == x for every x.
func (w Wiring) IsInvolution() bool {
	for x := 0; x < Size; x++ {
		if w.Forward(w.Forward(x)) != x {
			return false
		}
	}
	return true
}

// Rotated returns the wiring re-indexed by p: connection i of the result
// leads where connection (i+p) mod Size of w leads.
func (w Wiring) Rotated(p int) Wiring {
	p = mod(p)
	var ends [Size]int
	for i := range ends {
		ends[i] = w.connections[(i+p)%Size].End
	}
	out, _, _ := newWiring(ends)
	return out
}

// String returns the wiring in its 26-letter form.
func (w Wiring) String() string {
	var sb strings.Builder
	sb.Grow(Size)
	for _, c := range w.connections {
		sb.WriteByte(byte('A' + c.End))
	}
	return sb.String()
}

// IsValid reports whether w is a bijection with a consistent inverse. It is
// false for the zero Wiring.
func (w Wiring) IsValid() bool {
	var seen [Size]bool
	for start, c := range w.connections {
		if c.Start != start || c.End < 0 || c.End >= Size || seen[c.End] {
			return false
		}
		seen[c.End] = true
		if w.inverse[c.End] != start {
			return false
		}
	}
	return true
}
