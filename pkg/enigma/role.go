package enigma

import "strings"

// Role is the part a wheel plays in the signal path.
type Role int

const (
	// RoleStator is a fixed entry wheel. It is never keyed.
	RoleStator Role = iota
	// RoleRotor is a keyed wheel the signal crosses in both directions.
	RoleRotor
	// RoleReflector sends the signal back through the wheels before it.
	RoleReflector
)

// String returns the descriptor tag of the role.
func (r Role) String() string {
	switch r {
	case RoleStator:
		return "stator"
	case RoleRotor:
		return "rotor"
	case RoleReflector:
		return "reflector"
	default:
		return "unknown"
	}
}

// Keyed reports whether the role takes a letter of the encryption key.
func (r Role) Keyed() bool {
	return r != RoleStator
}

func (r Role) valid() bool {
	return r >= RoleStator && r <= RoleReflector
}

// ParseRole converts a descriptor tag to a Role. Tags are case-insensitive.
func ParseRole(tag string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "stator":
		return RoleStator, nil
	case "rotor":
		return RoleRotor, nil
	case "reflector":
		return RoleReflector, nil
	default:
		return 0, NewError("ParseRole").Role(tag).Cause(ErrUnknownRotorType).Err()
	}
}
