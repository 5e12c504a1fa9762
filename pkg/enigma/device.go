package enigma

import (
	"strings"
	"unicode/utf8"
)

// DeviceDescriptor carries a device's catalog metadata.
type DeviceDescriptor struct {
	ID          string
	Name        string
	Description string
}

// Option configures a Device at construction.
type Option func(*Device)

// WithDeviceDescriptor attaches catalog metadata to the device.
func WithDeviceDescriptor(d DeviceDescriptor) Option {
	return func(dev *Device) { dev.descriptor = d }
}

// Device is an ordered stack of rotors implementing the full signal path.
// Rotors are entered in slice order.
type Device struct {
	rotors     []*Rotor
	reflector  int // index of the reflector, -1 if none
	descriptor DeviceDescriptor
}

// New builds a device from rotors, taking exclusive ownership of each one.
// It fails with ErrInvalidArgument if rotors is empty, holds a nil entry,
// lists a rotor twice, holds a rotor already owned by another device, or
// holds more than one reflector.
func New(rotors []*Rotor, opts ...Option) (*Device, error) {
	if len(rotors) == 0 {
		return nil, NewError("New").Entity("rotors").Context("no rotors").Cause(ErrInvalidArgument).Err()
	}

	d := &Device{
		rotors:    make([]*Rotor, len(rotors)),
		reflector: -1,
	}
	seen := make(map[*Rotor]int, len(rotors))
	for i, r := range rotors {
		switch {
		case r == nil:
			return nil, NewError("New").Rotor(i).Context("nil rotor").Cause(ErrInvalidArgument).Err()
		case r.owned:
			return nil, NewError("New").Rotor(i).Context("rotor belongs to another device").Cause(ErrInvalidArgument).Err()
		}
		if j, dup := seen[r]; dup {
			return nil, NewError("New").Rotor(i).Contextf("same rotor as index %d", j).Cause(ErrInvalidArgument).Err()
		}
		seen[r] = i

		if r.role == RoleReflector {
			if d.reflector >= 0 {
				return nil, NewError("New").Rotor(i).
					Contextf("second reflector, first at index %d", d.reflector).Cause(ErrInvalidArgument).Err()
			}
			d.reflector = i
		}
		d.rotors[i] = r
	}

	for _, r := range d.rotors {
		r.owned = true
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Descriptor returns the catalog metadata attached at construction.
func (d *Device) Descriptor() DeviceDescriptor { return d.descriptor }

// Rotors returns the device's rotors in signal entry order. The slice is a
// copy; the rotors are not.
func (d *Device) Rotors() []*Rotor {
	out := make([]*Rotor, len(d.rotors))
	copy(out, d.rotors)
	return out
}

// Reflector returns the index of the reflector, if the device has one.
func (d *Device) Reflector() (int, bool) {
	return d.reflector, d.reflector >= 0
}

// KeyedRotors returns the rotors that take a key letter, in device order.
func (d *Device) KeyedRotors() []*Rotor {
	out := make([]*Rotor, 0, len(d.rotors))
	for _, r := range d.rotors {
		if r.role.Keyed() {
			out = append(out, r)
		}
	}
	return out
}

// KeyLength returns the number of letters SetEncryptionKey expects: one per
// non-stator rotor.
func (d *Device) KeyLength() int {
	n := 0
	for _, r := range d.rotors {
		if r.role.Keyed() {
			n++
		}
	}
	return n
}

// Key returns the current key: the position letter of every keyed rotor.
func (d *Device) Key() string {
	var sb strings.Builder
	for _, r := range d.rotors {
		if r.role.Keyed() {
			sb.WriteRune(r.Key())
		}
	}
	return sb.String()
}

// SetEncryptionKey sets every non-stator rotor, in device order, to the
// matching letter of key. Stators are skipped without consuming a letter.
// The key is checked in full before any rotor moves, so a rejected key
// leaves the device as it was.
func (d *Device) SetEncryptionKey(key string) error {
	n := d.KeyLength()
	if got := utf8.RuneCountInString(key); got != n {
		return NewError("SetEncryptionKey").Entity("key").
			Contextf("%d letters, want %d", got, n).Cause(ErrInvalidArgument).Err()
	}

	positions := make([]int, 0, n)
	letters := []rune(key)
	for i, r := range d.rotors {
		if !r.role.Keyed() {
			continue
		}
		letter := letters[len(positions)]
		p, err := IndexOf(letter)
		if err != nil {
			return NewError("SetEncryptionKey").Rotor(i).Value(string(letter)).Cause(err).Err()
		}
		if err := r.checkPosition(p); err != nil {
			return NewError("SetEncryptionKey").Rotor(i).Value(string(letter)).Cause(err).Err()
		}
		positions = append(positions, p)
	}

	k := 0
	for _, r := range d.rotors {
		if r.role.Keyed() {
			r.apply(positions[k])
			k++
		}
	}
	return nil
}

// Reset turns every rotor back to position 0.
func (d *Device) Reset() {
	for _, r := range d.rotors {
		r.Reset()
	}
}

// PressKey sends letter through the signal path and returns the lamp that
// lights.
func (d *Device) PressKey(letter rune) (rune, error) {
	index, err := IndexOf(letter)
	if err != nil {
		return 0, err
	}
	return rune('A' + d.signal(index, nil)), nil
}

// PressKeyTrace is PressKey that also reports every rotor crossing.
func (d *Device) PressKeyTrace(letter rune) (rune, Trace, error) {
	index, err := IndexOf(letter)
	if err != nil {
		return 0, nil, err
	}
	trace := make(Trace, 0, 2*len(d.rotors))
	out := d.signal(index, &trace)
	return rune('A' + out), trace, nil
}

// signal walks the rotors from index 0. Each rotor maps the position
// forward while entering and backward while returning; a reflector flips
// the direction. The walk ends when the cursor leaves the stack: past the
// last rotor (no reflector, single pass) or before the first (round trip).
func (d *Device) signal(index int, trace *Trace) int {
	phase := PhaseEntering
	cursor := 0
	for cursor >= 0 && cursor < len(d.rotors) {
		r := d.rotors[cursor]
		in := index
		if phase == PhaseEntering {
			index = r.SignalForward(index)
		} else {
			index = r.SignalBackward(index)
		}
		if trace != nil {
			*trace = append(*trace, Step{Rotor: cursor, Role: r.role, Phase: phase, Input: in, Output: index})
		}

		if r.role == RoleReflector {
			if phase == PhaseEntering {
				phase = PhaseReturning
			} else {
				phase = PhaseEntering
			}
		}
		if phase == PhaseEntering {
			cursor++
		} else {
			cursor--
		}
	}
	return index
}

// SubmitString encrypts text and lays the result out with formatting.
// Text is upper-cased and spaces are removed; any other character outside
// the alphabet fails the whole call and nothing is returned.
func (d *Device) SubmitString(text string, formatting Formatting) (string, error) {
	if formatting < FormatOriginal || formatting > FormatFiveLetterBlocks {
		return "", NewError("SubmitString").Entity("formatting").Value(formatting.String()).Cause(ErrInvalidArgument).Err()
	}
	if text == "" {
		return "", nil
	}

	normalized := strings.ReplaceAll(strings.ToUpper(text), " ", "")

	var sb strings.Builder
	sb.Grow(len(normalized))
	for i, letter := range normalized {
		out, err := d.PressKey(letter)
		if err != nil {
			return "", NewError("SubmitString").Entity("text").Contextf("byte offset %d", i).Cause(err).Err()
		}
		sb.WriteRune(out)
	}
	return Format(sb.String(), formatting)
}
