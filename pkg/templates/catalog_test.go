package templates

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

const smallCatalog = `
rotors:
  - id: ID
    name: identity
    type: rotor
    wiring: ABCDEFGHIJKLMNOPQRSTUVWXYZ
  - id: REV
    name: reverse
    type: Reflector
    wiring: ZYXWVUTSRQPONMLKJIHGFEDCBA
presets:
  - id: Pair
    name: pair
    rotors: [ID, REV]
  - id: Alone
    rotors: [ID]
`

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.NotNil(t, c)
	assert.Same(t, c, Default())

	var ids []string
	for _, p := range c.Presets() {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"Caesar", "EnigmaI", "EnigmaI-A", "EnigmaI-C", "M3", "Mirror", "Railway"}, ids)

	ukwB, ok := c.Rotor("UKW-B")
	require.True(t, ok)
	assert.Equal(t, enigma.RoleReflector, ukwB.Role())
	assert.Equal(t, "1937", ukwB.Date)

	_, ok = c.Rotor("UKW-Z")
	assert.False(t, ok)
	assert.Len(t, c.RotorTemplates(), 16)
}

func TestEveryPresetRoundTrips(t *testing.T) {
	c := Default()
	for _, p := range c.Presets() {
		t.Run(p.ID, func(t *testing.T) {
			d, err := c.NewDevice(p.ID)
			require.NoError(t, err)
			assert.Equal(t, p.ID, d.Descriptor().ID)
			assert.Len(t, d.Rotors(), len(p.Rotors))

			// Highest valid position of every keyed rotor.
			var key strings.Builder
			for _, r := range d.KeyedRotors() {
				valid := r.ValidPositions()
				key.WriteRune(rune('A' + valid[len(valid)-1]))
			}
			require.NoError(t, d.SetEncryptionKey(key.String()))

			ct, err := d.SubmitString("ATTACK AT DAWN", enigma.FormatOriginal)
			require.NoError(t, err)
			if _, ok := d.Reflector(); !ok {
				return
			}
			pt, err := d.SubmitString(ct, enigma.FormatOriginal)
			require.NoError(t, err)
			assert.Equal(t, "ATTACKATDAWN", pt)
		})
	}
}

func TestEnigmaIKnownAnswers(t *testing.T) {
	d, err := Default().NewDevice("EnigmaI")
	require.NoError(t, err)
	assert.Equal(t, 4, d.KeyLength())

	out, err := d.SubmitString("HELLOWORLD", enigma.FormatFiveLetterBlocks)
	require.NoError(t, err)
	assert.Equal(t, "ZBSSD IDMSO", out)

	require.NoError(t, d.SetEncryptionKey("QEVA"))
	out, err = d.SubmitString("ATTACKATDAWN", enigma.FormatOriginal)
	require.NoError(t, err)
	assert.Equal(t, "YVVYLZYVRYUQ", out)

	// Reflector B only keeps its pairing at A.
	assert.ErrorIs(t, d.SetEncryptionKey("QEVB"), enigma.ErrInvalidMapping)
	assert.Equal(t, "QEVA", d.Key())
}

func TestRailwayKnownAnswer(t *testing.T) {
	d, err := Default().NewDevice("Railway")
	require.NoError(t, err)
	require.NoError(t, d.SetEncryptionKey("BCDA"))

	out, err := d.SubmitString("HELLOWORLD", enigma.FormatOriginal)
	require.NoError(t, err)
	assert.Equal(t, "UIAAWOWNAQ", out)
}

func TestNewDeviceBuildsFreshRotors(t *testing.T) {
	c := Default()
	a, err := c.NewDevice("EnigmaI")
	require.NoError(t, err)
	b, err := c.NewDevice("EnigmaI")
	require.NoError(t, err)

	require.NoError(t, a.SetEncryptionKey("ZZZA"))
	assert.Equal(t, "AAAA", b.Key(), "devices from the same preset share rotors")
	for i := range a.Rotors() {
		assert.NotSame(t, a.Rotors()[i], b.Rotors()[i])
	}
}

func TestNewDeviceUnknownPreset(t *testing.T) {
	_, err := Default().NewDevice("Enigma M4")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.Contains(t, err.Error(), `"Enigma M4"`)

	_, err = Default().NewRotor("VIII")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

func TestPresetReturnsCopy(t *testing.T) {
	c := Default()
	p, ok := c.Preset("EnigmaI")
	require.True(t, ok)
	p.Rotors[0] = "UKW-A"

	again, _ := c.Preset("EnigmaI")
	assert.Equal(t, "ETW", again.Rotors[0])

	_, ok = c.Preset("nope")
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	c, err := Parse([]byte(smallCatalog))
	require.NoError(t, err)

	d, err := c.NewDevice("Pair")
	require.NoError(t, err)
	require.NoError(t, d.SetEncryptionKey("BB"))
	out, err := d.SubmitString("HELLO", enigma.FormatOriginal)
	require.NoError(t, err)
	assert.Equal(t, "PSLLI", out)

	empty, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, empty.Presets())
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		kind error
		msg  string
	}{
		{
			name: "bad wiring",
			yaml: "rotors:\n  - {id: X, type: rotor, wiring: AACDEFGHIJKLMNOPQRSTUVWXYZ}\n",
			kind: enigma.ErrInvalidMapping,
			msg:  "rotors[0].wiring",
		},
		{
			name: "unknown type",
			yaml: "rotors:\n  - {id: X, type: plugboard, wiring: ABCDEFGHIJKLMNOPQRSTUVWXYZ}\n",
			kind: enigma.ErrUnknownRotorType,
			msg:  "rotors[0].type",
		},
		{
			name: "reflector not an involution",
			yaml: "rotors:\n  - {id: X, type: reflector, wiring: EKMFLGDQVZNTOWYHXUSPAIBRCJ}\n",
			kind: enigma.ErrInvalidMapping,
			msg:  `"X"`,
		},
		{
			name: "duplicate rotor id",
			yaml: "rotors:\n  - {id: X, type: rotor, wiring: ABCDEFGHIJKLMNOPQRSTUVWXYZ}\n  - {id: X, type: rotor, wiring: ZYXWVUTSRQPONMLKJIHGFEDCBA}\n",
			msg:  "duplicate rotor id",
		},
		{
			name: "duplicate preset id",
			yaml: "rotors:\n  - {id: X, type: rotor, wiring: ABCDEFGHIJKLMNOPQRSTUVWXYZ}\npresets:\n  - {id: P, rotors: [X]}\n  - {id: P, rotors: [X]}\n",
			msg:  "duplicate preset id",
		},
		{
			name: "preset names unknown rotor",
			yaml: "rotors:\n  - {id: X, type: rotor, wiring: ABCDEFGHIJKLMNOPQRSTUVWXYZ}\npresets:\n  - {id: P, rotors: [X, Y]}\n",
			kind: ErrTemplateNotFound,
			msg:  `rotor "Y"`,
		},
		{
			name: "preset with two reflectors",
			yaml: "rotors:\n  - {id: X, type: rotor, wiring: ABCDEFGHIJKLMNOPQRSTUVWXYZ}\n  - {id: M, type: reflector, wiring: ZYXWVUTSRQPONMLKJIHGFEDCBA}\n  - {id: N, type: reflector, wiring: ZYXWVUTSRQPONMLKJIHGFEDCBA}\npresets:\n  - {id: P, rotors: [X, M, N]}\n",
			kind: enigma.ErrInvalidArgument,
			msg:  `preset "P"`,
		},
		{
			name: "empty preset",
			yaml: "presets:\n  - {id: P, rotors: []}\n",
			msg:  "presets[0].rotors",
		},
		{
			name: "unknown field",
			yaml: "rotors:\n  - {id: X, kind: rotor, wiring: ABCDEFGHIJKLMNOPQRSTUVWXYZ}\n",
			msg:  "kind",
		},
		{
			name: "not yaml",
			yaml: "rotors: [\n",
			msg:  "decode catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.kind != nil {
				assert.True(t, errors.Is(err, tt.kind), "error %v does not wrap %v", err, tt.kind)
			}
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadAndLoadFile(t *testing.T) {
	c, err := Load(strings.NewReader(smallCatalog))
	require.NoError(t, err)
	_, ok := c.Preset("Alone")
	assert.True(t, ok)

	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(smallCatalog), 0o600))

	c, err = LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, c.Presets(), 2)

	emptyPath := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(emptyPath, nil, 0o600))
	c, err = LoadFile(emptyPath)
	require.NoError(t, err)
	assert.Empty(t, c.Presets())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestCatalogString(t *testing.T) {
	c, err := Parse([]byte(smallCatalog))
	require.NoError(t, err)
	assert.Equal(t, "catalog(2 rotors, presets Alone,Pair)", c.String())
}
