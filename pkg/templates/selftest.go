package templates

import (
	"fmt"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

// selfTestProbe exercises every letter of the alphabet.
const selfTestProbe = "THEQUICKBROWNFOXJUMPSOVERTHELAZYDOG"

// SelfTest builds a device from every preset and encrypts a probe text.
// Output must be repeatable, and a device with a reflector must decrypt its
// own ciphertext.
func (c *Catalog) SelfTest() error {
	for _, id := range c.presetIDs() {
		if err := c.selfTestPreset(id); err != nil {
			return fmt.Errorf("self-test of preset %s failed: %w", id, err)
		}
	}
	return nil
}

func (c *Catalog) selfTestPreset(id string) error {
	d, err := c.NewDevice(id)
	if err != nil {
		return err
	}
	first, err := d.SubmitString(selfTestProbe, enigma.FormatOriginal)
	if err != nil {
		return err
	}
	second, err := d.SubmitString(selfTestProbe, enigma.FormatOriginal)
	if err != nil {
		return err
	}
	if first != second {
		return fmt.Errorf("output not repeatable: %s then %s", first, second)
	}

	if _, ok := d.Reflector(); !ok {
		return nil
	}
	back, err := d.SubmitString(first, enigma.FormatOriginal)
	if err != nil {
		return err
	}
	if back != selfTestProbe {
		return fmt.Errorf("round trip gave %s", back)
	}
	return nil
}
