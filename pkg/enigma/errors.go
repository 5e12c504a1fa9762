package enigma

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error kinds. Branch on them with errors.Is.
var (
	// ErrInvalidArgument covers bad rotor lists, bad keys, non-alphabet input
	// and out-of-range positions.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidMapping means a wiring is not a bijection over the alphabet,
	// or a reflector wiring is not an involution.
	ErrInvalidMapping = errors.New("invalid mapping")

	// ErrUnknownRotorType means a role tag is not stator, rotor or reflector.
	ErrUnknownRotorType = errors.New("unknown rotor type")
)

// CipherError provides structured error information for engine operations.
type CipherError struct {
	Op      string // Operation that failed (e.g., "SetPosition", "New")
	Entity  string // Entity involved (e.g., "symbol", "rotor", "wiring")
	Index   int    // Rotor index within a device, -1 if not applicable
	Value   string // Offending value, if any
	Context string // Additional context
	Cause   error  // Underlying error kind
}

// Error implements the error interface.
func (e *CipherError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Op)
	if e.Entity != "" {
		sb.WriteString(" ")
		sb.WriteString(e.Entity)
	}
	if e.Index >= 0 {
		sb.WriteString(" ")
		sb.WriteString(strconv.Itoa(e.Index))
	}
	if e.Value != "" {
		sb.WriteString(" ")
		sb.WriteString(strconv.Quote(e.Value))
	}
	if e.Context != "" {
		fmt.Fprintf(&sb, " (%s)", e.Context)
	}
	fmt.Fprintf(&sb, ": %v", e.Cause)
	return sb.String()
}

// Unwrap returns the underlying cause for error chain support.
func (e *CipherError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target error matches this error's cause.
func (e *CipherError) Is(target error) bool {
	if target == nil {
		return false
	}
	return errors.Is(e.Cause, target)
}

// ErrorBuilder provides a fluent interface for building CipherErrors.
type ErrorBuilder struct {
	err CipherError
}

// NewError creates a new error builder for the given operation.
func NewError(op string) *ErrorBuilder {
	return &ErrorBuilder{err: CipherError{Op: op, Index: -1}}
}

// Symbol sets the entity to "symbol" with the offending rune.
func (b *ErrorBuilder) Symbol(r rune) *ErrorBuilder {
	b.err.Entity = "symbol"
	b.err.Value = string(r)
	return b
}

// Position sets the entity to "position" with the offending value.
func (b *ErrorBuilder) Position(p int) *ErrorBuilder {
	b.err.Entity = "position"
	b.err.Value = strconv.Itoa(p)
	return b
}

// Wiring sets the entity to "wiring" with the offending wiring string.
func (b *ErrorBuilder) Wiring(s string) *ErrorBuilder {
	b.err.Entity = "wiring"
	b.err.Value = s
	return b
}

// Role sets the entity to "role" with the offending tag.
func (b *ErrorBuilder) Role(tag string) *ErrorBuilder {
	b.err.Entity = "role"
	b.err.Value = tag
	return b
}

// Rotor sets the entity to "rotor" with its index in the device.
func (b *ErrorBuilder) Rotor(index int) *ErrorBuilder {
	b.err.Entity = "rotor"
	b.err.Index = index
	return b
}

// Entity sets a free-form entity name.
func (b *ErrorBuilder) Entity(name string) *ErrorBuilder {
	b.err.Entity = name
	return b
}

// Value sets the offending value.
func (b *ErrorBuilder) Value(v string) *ErrorBuilder {
	b.err.Value = v
	return b
}

// Context sets additional context information.
func (b *ErrorBuilder) Context(ctx string) *ErrorBuilder {
	b.err.Context = ctx
	return b
}

// Contextf sets formatted context information.
func (b *ErrorBuilder) Contextf(format string, args ...any) *ErrorBuilder {
	b.err.Context = fmt.Sprintf(format, args...)
	return b
}

// Cause sets the underlying error kind.
func (b *ErrorBuilder) Cause(err error) *ErrorBuilder {
	b.err.Cause = err
	return b
}

// Build returns the constructed CipherError.
func (b *ErrorBuilder) Build() *CipherError {
	return &b.err
}

// Err returns the error as an error interface.
func (b *ErrorBuilder) Err() error {
	return &b.err
}

// IsInvalidArgument returns true if err is an ErrInvalidArgument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsInvalidMapping returns true if err is an ErrInvalidMapping.
func IsInvalidMapping(err error) bool {
	return errors.Is(err, ErrInvalidMapping)
}

// Kind returns a short label for the error kind of err, for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrInvalidMapping):
		return "invalid_mapping"
	case errors.Is(err, ErrUnknownRotorType):
		return "unknown_rotor_type"
	default:
		return "other"
	}
}
