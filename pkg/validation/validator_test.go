package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

type wheel struct {
	ID     string `yaml:"id" validate:"required,templateid"`
	Type   string `yaml:"type" validate:"required,rotortype"`
	Wiring string `yaml:"wiring" validate:"required,wiring"`
}

type wheelSet struct {
	Wheels []wheel `yaml:"rotors" validate:"required,min=1,dive"`
	Key    string  `yaml:"key" validate:"omitempty,keyletters"`
}

func TestStruct(t *testing.T) {
	valid := wheel{ID: "I", Type: "rotor", Wiring: "EKMFLGDQVZNTOWYHXUSPAIBRCJ"}

	tests := []struct {
		name        string
		set         wheelSet
		expectError bool
		errorField  string
		kind        error
	}{
		{
			name: "Valid set",
			set:  wheelSet{Wheels: []wheel{valid}, Key: "ABC"},
		},
		{
			name:        "No wheels",
			set:         wheelSet{},
			expectError: true,
			errorField:  "rotors",
		},
		{
			name:        "Missing id",
			set:         wheelSet{Wheels: []wheel{{Type: "rotor", Wiring: valid.Wiring}}},
			expectError: true,
			errorField:  "rotors[0].id",
		},
		{
			name:        "Id with spaces",
			set:         wheelSet{Wheels: []wheel{{ID: "rotor one", Type: "rotor", Wiring: valid.Wiring}}},
			expectError: true,
			errorField:  "rotors[0].id",
		},
		{
			name:        "Unknown type",
			set:         wheelSet{Wheels: []wheel{valid, {ID: "X", Type: "plugboard", Wiring: valid.Wiring}}},
			expectError: true,
			errorField:  "rotors[1].type",
			kind:        enigma.ErrUnknownRotorType,
		},
		{
			name:        "Wiring with repeated letter",
			set:         wheelSet{Wheels: []wheel{{ID: "X", Type: "rotor", Wiring: "AACDEFGHIJKLMNOPQRSTUVWXYZ"}}},
			expectError: true,
			errorField:  "rotors[0].wiring",
			kind:        enigma.ErrInvalidMapping,
		},
		{
			name:        "Short wiring",
			set:         wheelSet{Wheels: []wheel{{ID: "X", Type: "rotor", Wiring: "ABC"}}},
			expectError: true,
			errorField:  "rotors[0].wiring",
			kind:        enigma.ErrInvalidMapping,
		},
		{
			name:        "Key with digits",
			set:         wheelSet{Wheels: []wheel{valid}, Key: "A1"},
			expectError: true,
			errorField:  "key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.set)
			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error but got none")
				}
				if !strings.HasPrefix(err.Error(), tt.errorField+":") {
					t.Errorf("Expected error for field %q, got: %v", tt.errorField, err)
				}
				if tt.kind != nil && !errors.Is(err, tt.kind) {
					t.Errorf("Expected error to wrap %v, got: %v", tt.kind, err)
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestStruct_Nil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("Expected error for nil value")
	}
}

func TestValidateTemplateID(t *testing.T) {
	tests := []struct {
		id          string
		expectError bool
	}{
		{"I", false},
		{"UKW-B", false},
		{"EnigmaI", false},
		{"rocket_ii.v2", false},
		{"", true},
		{"-leading", true},
		{"has space", true},
		{"Ümlaut", true},
		{strings.Repeat("A", MaxTemplateID), false},
		{strings.Repeat("A", MaxTemplateID+1), true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateTemplateID(tt.id)
			if tt.expectError && err == nil {
				t.Errorf("ValidateTemplateID(%q) expected error", tt.id)
			}
			if !tt.expectError && err != nil {
				t.Errorf("ValidateTemplateID(%q) unexpected error: %v", tt.id, err)
			}
		})
	}
}

func TestValidateKeyLetters(t *testing.T) {
	for _, key := range []string{"", "A", "QWERTY"} {
		if err := ValidateKeyLetters(key); err != nil {
			t.Errorf("ValidateKeyLetters(%q) unexpected error: %v", key, err)
		}
	}
	for _, key := range []string{"a", "AB C", "Ä"} {
		if err := ValidateKeyLetters(key); err == nil {
			t.Errorf("ValidateKeyLetters(%q) expected error", key)
		}
	}
}

func TestValidateWiringAndType(t *testing.T) {
	if err := ValidateWiring(enigma.Letters); err != nil {
		t.Errorf("ValidateWiring(identity) unexpected error: %v", err)
	}
	if err := ValidateWiring("ZYX"); !errors.Is(err, enigma.ErrInvalidMapping) {
		t.Errorf("ValidateWiring(short) = %v, want ErrInvalidMapping", err)
	}
	if err := ValidateRotorType("Reflector"); err != nil {
		t.Errorf("ValidateRotorType(Reflector) unexpected error: %v", err)
	}
	if err := ValidateRotorType("rotator"); !errors.Is(err, enigma.ErrUnknownRotorType) {
		t.Errorf("ValidateRotorType(rotator) = %v, want ErrUnknownRotorType", err)
	}
}
