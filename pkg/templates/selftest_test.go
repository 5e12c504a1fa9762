package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfTestDefaultCatalog(t *testing.T) {
	assert.NoError(t, Default().SelfTest())
}

func TestSelfTestCatalogWithoutReflector(t *testing.T) {
	c, err := Parse([]byte(`
rotors:
  - id: ETW
    type: stator
    wiring: ABCDEFGHIJKLMNOPQRSTUVWXYZ
  - id: I
    type: rotor
    wiring: EKMFLGDQVZNTOWYHXUSPAIBRCJ
presets:
  - id: Single
    rotors: [ETW, I]
`))
	require.NoError(t, err)
	assert.NoError(t, c.SelfTest())
}
