package enigma_test

import (
	"fmt"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

func Example() {
	rotor, _ := enigma.NewRotorFromStrings(enigma.Letters, "rotor")
	reflector, _ := enigma.NewRotorFromStrings(enigma.ReversedLetters, "reflector")

	device, err := enigma.New([]*enigma.Rotor{rotor, reflector})
	if err != nil {
		fmt.Println(err)
		return
	}
	if err := device.SetEncryptionKey("BB"); err != nil {
		fmt.Println(err)
		return
	}

	ciphertext, _ := device.SubmitString("hello", enigma.FormatOriginal)
	plaintext, _ := device.SubmitString(ciphertext, enigma.FormatOriginal)
	fmt.Println(ciphertext)
	fmt.Println(plaintext)
	// Output:
	// PSLLI
	// HELLO
}

func ExampleDevice_SubmitString() {
	rotor, _ := enigma.NewRotorFromStrings(enigma.Letters, "rotor")
	device, _ := enigma.New([]*enigma.Rotor{rotor})
	_ = device.SetEncryptionKey("B")

	out, _ := device.SubmitString("hello my name is john", enigma.FormatFiveLetterBlocks)
	fmt.Println(out)
	// Output: IFMMP NZOBN FJTKP IO
}

func ExampleDevice_PressKeyTrace() {
	rotor, _ := enigma.NewRotorFromStrings(enigma.Letters, "rotor")
	reflector, _ := enigma.NewRotorFromStrings(enigma.ReversedLetters, "reflector")
	device, _ := enigma.New([]*enigma.Rotor{rotor, reflector})

	lamp, trace, _ := device.PressKeyTrace('H')
	fmt.Printf("%c: %s\n", lamp, trace)
	// Output: S: H -0-> H -1-> S -0-> S
}

func ExampleRotor_ValidPositions() {
	ukwB, _ := enigma.NewRotorFromStrings("YRUHQSLDPXNGOKMIEBFZCWVJAT", "reflector")
	mirror, _ := enigma.NewRotorFromStrings(enigma.ReversedLetters, "reflector")
	fmt.Println(len(ukwB.ValidPositions()), len(mirror.ValidPositions()))
	// Output: 1 26
}
