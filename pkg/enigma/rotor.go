package enigma

// Descriptor carries a wheel's catalog metadata. The engine never reads it.
type Descriptor struct {
	ID    string
	Name  string
	Model string
	Date  string
}

// RotorOption configures a Rotor at construction.
type RotorOption func(*Rotor)

// WithDescriptor attaches catalog metadata to the rotor.
func WithDescriptor(d Descriptor) RotorOption {
	return func(r *Rotor) { r.descriptor = d }
}

// Rotor is a wheel: a base wiring, an absolute position and a role.
//
// The working wiring is always rebuilt from the base wiring and the
// position; it never drifts from repeated position changes.
type Rotor struct {
	base     Wiring
	working  Wiring
	position int
	role     Role

	// allowed[p] reports whether SetPosition(p) keeps the role's invariants.
	allowed [Size]bool

	descriptor Descriptor
	owned      bool // claimed by a Device
}

// NewRotor creates a rotor at position 0 from a wiring and a role.
// A reflector's wiring must be an involution.
func NewRotor(w Wiring, role Role, opts ...RotorOption) (*Rotor, error) {
	if !role.valid() {
		return nil, NewError("NewRotor").Entity("role").Value(role.String()).Cause(ErrUnknownRotorType).Err()
	}
	if !w.IsValid() {
		return nil, NewError("NewRotor").Wiring(w.String()).Cause(ErrInvalidMapping).Err()
	}
	if role == RoleReflector && !w.IsInvolution() {
		return nil, NewError("NewRotor").Wiring(w.String()).
			Context("reflector wiring is not an involution").Cause(ErrInvalidMapping).Err()
	}

	r := &Rotor{
		base:    w,
		working: w,
		role:    role,
	}
	for p := 0; p < Size; p++ {
		r.allowed[p] = role != RoleReflector || w.Rotated(p).IsInvolution()
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// NewRotorFromStrings parses a 26-letter wiring and a role tag, as found in
// descriptor files.
func NewRotorFromStrings(wiring, roleTag string, opts ...RotorOption) (*Rotor, error) {
	w, err := WiringFromString(wiring)
	if err != nil {
		return nil, err
	}
	role, err := ParseRole(roleTag)
	if err != nil {
		return nil, err
	}
	return NewRotor(w, role, opts...)
}

// SetPosition turns the rotor to the absolute position p, replacing any
// previous setting. For a reflector, positions at which the working wiring
// would stop being an involution are rejected and the rotor is unchanged.
func (r *Rotor) SetPosition(p int) error {
	if err := r.checkPosition(p); err != nil {
		return err
	}
	r.apply(p)
	return nil
}

// SetKey turns the rotor to the position of letter.
func (r *Rotor) SetKey(letter rune) error {
	p, err := IndexOf(letter)
	if err != nil {
		return err
	}
	return r.SetPosition(p)
}

// Reset turns the rotor back to position 0.
func (r *Rotor) Reset() {
	r.apply(0)
}

func (r *Rotor) checkPosition(p int) error {
	if p < 0 || p >= Size {
		return NewError("SetPosition").Position(p).Cause(ErrInvalidArgument).Err()
	}
	if !r.allowed[p] {
		return NewError("SetPosition").Position(p).
			Context("reflector wiring is not an involution at this position").Cause(ErrInvalidMapping).Err()
	}
	return nil
}

func (r *Rotor) apply(p int) {
	r.working = r.base.Rotated(p)
	r.position = p
}

// SignalForward maps an entry position to an exit position through the
// working wiring. position is reduced modulo Size first.
func (r *Rotor) SignalForward(position int) int {
	return r.working.Forward(mod(position))
}

// SignalBackward maps an exit position back to its entry position through
// the working wiring. position is reduced modulo Size first.
func (r *Rotor) SignalBackward(position int) int {
	return r.working.Backward(mod(position))
}

// Position returns the current absolute position.
func (r *Rotor) Position() int { return r.position }

// Key returns the letter of the current position.
func (r *Rotor) Key() rune { return rune('A' + r.position) }

// Role returns the rotor's role.
func (r *Rotor) Role() Role { return r.role }

// Base returns the wiring at position 0.
func (r *Rotor) Base() Wiring { return r.base }

// Working returns the wiring at the current position.
func (r *Rotor) Working() Wiring { return r.working }

// Descriptor returns the catalog metadata attached at construction.
func (r *Rotor) Descriptor() Descriptor { return r.descriptor }

// AcceptsPosition reports whether SetPosition(p) would succeed.
func (r *Rotor) AcceptsPosition(p int) bool {
	return p >= 0 && p < Size && r.allowed[p]
}

// ValidPositions lists the positions the rotor can be keyed to, ascending.
// Every position is valid for a stator or rotor; a reflector may be limited
// to the positions that keep its wiring an involution.
func (r *Rotor) ValidPositions() []int {
	out := make([]int, 0, Size)
	for p, ok := range r.allowed {
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// String returns the working wiring in its 26-letter form.
func (r *Rotor) String() string {
	return r.working.String()
}
