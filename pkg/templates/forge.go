package templates

import (
	"fmt"
	"math/rand/v2"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
	"github.com/dd0wney/cluso-enigma/pkg/validation"
)

// Forge builds an ad-hoc device: an identity entry wheel, rotorCount random
// rotors and a random reflector. Equal seeds forge identical wirings.
func Forge(rotorCount int, seed uint64) (*enigma.Device, error) {
	if rotorCount < 1 || rotorCount > validation.MaxRotorsPerSet-2 {
		return nil, enigma.NewError("Forge").Entity("rotor count").Value(fmt.Sprint(rotorCount)).
			Contextf("want 1..%d", validation.MaxRotorsPerSet-2).Cause(enigma.ErrInvalidArgument).Err()
	}
	rng := rand.New(rand.NewPCG(seed, seed>>32|seed<<32))

	rotors := make([]*enigma.Rotor, 0, rotorCount+2)
	add := func(w enigma.Wiring, role enigma.Role, id string) error {
		r, err := enigma.NewRotor(w, role, enigma.WithDescriptor(enigma.Descriptor{
			ID:    id,
			Name:  "Forged " + role.String(),
			Model: "Forged",
		}))
		if err != nil {
			return err
		}
		rotors = append(rotors, r)
		return nil
	}

	if err := add(enigma.IdentityWiring(), enigma.RoleStator, "F-ETW"); err != nil {
		return nil, err
	}
	for i := 1; i <= rotorCount; i++ {
		if err := add(enigma.RandomWiring(rng), enigma.RoleRotor, fmt.Sprintf("F-%d", i)); err != nil {
			return nil, err
		}
	}
	if err := add(enigma.RandomReflectorWiring(rng), enigma.RoleReflector, "F-UKW"); err != nil {
		return nil, err
	}

	return enigma.New(rotors, enigma.WithDeviceDescriptor(enigma.DeviceDescriptor{
		ID:          fmt.Sprintf("Forge-%d-%d", rotorCount, seed),
		Name:        fmt.Sprintf("Forged %d-rotor device", rotorCount),
		Description: fmt.Sprintf("Random wirings from seed %d", seed),
	}))
}
