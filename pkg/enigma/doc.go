// Package enigma implements the rotor/signal-path engine of an Enigma-style
// substitution cipher.
//
// A Device is an ordered stack of Rotors. Each Rotor owns an immutable base
// Wiring and a working Wiring derived from its absolute position. Pressing a
// key sends the signal through the rotors left to right; a Reflector sends it
// back right to left, which makes encryption its own inverse:
//
//	rotor, _ := enigma.NewRotor(enigma.IdentityWiring(), enigma.RoleRotor)
//	reflector, _ := enigma.NewRotor(enigma.FullReverseWiring(), enigma.RoleReflector)
//	device, _ := enigma.New([]*enigma.Rotor{rotor, reflector})
//	_ = device.SetEncryptionKey("BB")
//	ciphertext, _ := device.SubmitString("HELLO", enigma.FormatOriginal)
//
// Rotor positions are fixed once per message by SetEncryptionKey; they do not
// advance between keystrokes.
//
// Devices and Rotors are not safe for concurrent use. Wirings and the
// alphabet are immutable and may be shared freely.
package enigma
