// Package templates holds the catalog of rotor templates and device presets
// from which devices are built.
package templates

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"

	"golang.org/x/exp/mmap"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
	"github.com/dd0wney/cluso-enigma/pkg/validation"
)

// ErrTemplateNotFound means a rotor or preset id is not in the catalog.
var ErrTemplateNotFound = errors.New("template not found")

//go:embed presets.yaml
var defaultCatalog []byte

// RotorTemplate describes one wheel. It is compiled once when the catalog is
// loaded; every Build call returns a fresh rotor.
type RotorTemplate struct {
	ID     string `yaml:"id" validate:"required,templateid"`
	Name   string `yaml:"name" validate:"max=80"`
	Type   string `yaml:"type" validate:"required,rotortype"`
	Wiring string `yaml:"wiring" validate:"required,wiring"`
	Date   string `yaml:"date,omitempty"`
	Model  string `yaml:"model,omitempty"`

	role   enigma.Role
	wiring enigma.Wiring
}

// Role returns the compiled role of the template.
func (t RotorTemplate) Role() enigma.Role { return t.role }

// Build creates a new rotor at position 0 from the template.
func (t RotorTemplate) Build() (*enigma.Rotor, error) {
	return enigma.NewRotor(t.wiring, t.role, enigma.WithDescriptor(enigma.Descriptor{
		ID:    t.ID,
		Name:  t.Name,
		Model: t.Model,
		Date:  t.Date,
	}))
}

// DevicePreset names an ordered list of rotor templates, in signal entry
// order.
type DevicePreset struct {
	ID          string   `yaml:"id" validate:"required,templateid"`
	Name        string   `yaml:"name" validate:"max=80"`
	Description string   `yaml:"description,omitempty"`
	Rotors      []string `yaml:"rotors" validate:"required,min=1,max=16,dive,required"`
}

type catalogFile struct {
	Rotors  []RotorTemplate `yaml:"rotors" validate:"dive"`
	Presets []DevicePreset  `yaml:"presets" validate:"dive"`
}

// Catalog is a validated, immutable set of templates. It is safe for
// concurrent use.
type Catalog struct {
	rotors  map[string]RotorTemplate
	presets map[string]DevicePreset
}

// Parse decodes and validates a YAML catalog. Unknown fields, duplicate ids,
// bad wirings, unknown rotor types, non-involutive reflectors and presets
// that name unknown rotors are all rejected.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validation.Struct(&f); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}

	c := &Catalog{
		rotors:  make(map[string]RotorTemplate, len(f.Rotors)),
		presets: make(map[string]DevicePreset, len(f.Presets)),
	}
	for i, t := range f.Rotors {
		if _, dup := c.rotors[t.ID]; dup {
			return nil, fmt.Errorf("rotors[%d]: duplicate rotor id %q", i, t.ID)
		}
		if err := t.compile(); err != nil {
			return nil, fmt.Errorf("rotors[%d] %q: %w", i, t.ID, err)
		}
		c.rotors[t.ID] = t
	}
	for i, p := range f.Presets {
		if _, dup := c.presets[p.ID]; dup {
			return nil, fmt.Errorf("presets[%d]: duplicate preset id %q", i, p.ID)
		}
		for _, id := range p.Rotors {
			if _, ok := c.rotors[id]; !ok {
				return nil, fmt.Errorf("presets[%d] %q: rotor %q: %w", i, p.ID, id, ErrTemplateNotFound)
			}
		}
		p.Rotors = slices.Clone(p.Rotors)
		c.presets[p.ID] = p
	}
	// A preset must also assemble into a valid device.
	for _, id := range c.presetIDs() {
		if _, err := c.NewDevice(id); err != nil {
			return nil, fmt.Errorf("preset %q: %w", id, err)
		}
	}
	return c, nil
}

func (t *RotorTemplate) compile() error {
	role, err := enigma.ParseRole(t.Type)
	if err != nil {
		return err
	}
	w, err := enigma.WiringFromString(t.Wiring)
	if err != nil {
		return err
	}
	t.role, t.wiring = role, w
	// Reflector involution is checked by the rotor constructor.
	_, err = t.Build()
	return err
}

// Load reads a YAML catalog from r.
func Load(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// LoadFile reads a YAML catalog through a read-only memory map.
func LoadFile(path string) (*Catalog, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	defer r.Close()

	if r.Len() == 0 {
		return Parse(nil)
	}
	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default returns the built-in catalog of historical wheels and presets.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(defaultCatalog)
		if err != nil {
			panic(fmt.Sprintf("templates: embedded catalog: %v", err))
		}
		defaultCat = c
	})
	return defaultCat
}

// Rotor looks up a rotor template by id.
func (c *Catalog) Rotor(id string) (RotorTemplate, bool) {
	t, ok := c.rotors[id]
	return t, ok
}

// Preset looks up a device preset by id. The returned preset's rotor list
// is a copy.
func (c *Catalog) Preset(id string) (DevicePreset, bool) {
	p, ok := c.presets[id]
	if ok {
		p.Rotors = slices.Clone(p.Rotors)
	}
	return p, ok
}

// Presets lists every preset, sorted by id.
func (c *Catalog) Presets() []DevicePreset {
	out := make([]DevicePreset, 0, len(c.presets))
	for _, id := range c.presetIDs() {
		p, _ := c.Preset(id)
		out = append(out, p)
	}
	return out
}

// RotorTemplates lists every rotor template, sorted by id.
func (c *Catalog) RotorTemplates() []RotorTemplate {
	out := make([]RotorTemplate, 0, len(c.rotors))
	for _, t := range c.rotors {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (c *Catalog) presetIDs() []string {
	ids := make([]string, 0, len(c.presets))
	for id := range c.presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewRotor builds a fresh rotor from the template with the given id.
func (c *Catalog) NewRotor(id string) (*enigma.Rotor, error) {
	t, ok := c.rotors[id]
	if !ok {
		return nil, enigma.NewError("NewRotor").Entity("template").Value(id).Cause(ErrTemplateNotFound).Err()
	}
	return t.Build()
}

// NewDevice assembles a new device from the preset with the given id. Every
// call builds new rotors, so devices never share state.
func (c *Catalog) NewDevice(id string) (*enigma.Device, error) {
	p, ok := c.presets[id]
	if !ok {
		return nil, enigma.NewError("NewDevice").Entity("preset").Value(id).Cause(ErrTemplateNotFound).Err()
	}

	rotors := make([]*enigma.Rotor, len(p.Rotors))
	for i, rid := range p.Rotors {
		r, err := c.NewRotor(rid)
		if err != nil {
			return nil, err
		}
		rotors[i] = r
	}
	return enigma.New(rotors, enigma.WithDeviceDescriptor(enigma.DeviceDescriptor{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
	}))
}

// String lists preset ids, for logs.
func (c *Catalog) String() string {
	return fmt.Sprintf("catalog(%d rotors, presets %s)", len(c.rotors), strings.Join(c.presetIDs(), ","))
}
