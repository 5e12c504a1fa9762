package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxTemplateID   = 32
	MaxRotorsPerSet = 16

	// Template ids appear in YAML, on the command line and in metric labels.
	templateIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their YAML names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister("wiring", func(fl validator.FieldLevel) bool {
		return ValidateWiring(fl.Field().String()) == nil
	})
	mustRegister("rotortype", func(fl validator.FieldLevel) bool {
		return ValidateRotorType(fl.Field().String()) == nil
	})
	mustRegister("templateid", func(fl validator.FieldLevel) bool {
		return ValidateTemplateID(fl.Field().String()) == nil
	})
	mustRegister("keyletters", func(fl validator.FieldLevel) bool {
		return ValidateKeyLetters(fl.Field().String()) == nil
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Struct validates v against its `validate` struct tags. Besides the
// validator's built-in tags it understands wiring, rotortype, templateid and
// keyletters. A failing wiring or rotortype field wraps the matching engine
// error, so errors.Is(err, enigma.ErrInvalidMapping) works on the result.
func Struct(v any) error {
	if v == nil {
		return errors.New("value to validate cannot be nil")
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateWiring checks that s is a 26-letter permutation of the alphabet.
func ValidateWiring(s string) error {
	_, err := enigma.WiringFromString(s)
	return err
}

// ValidateRotorType checks that tag names a known rotor role.
func ValidateRotorType(tag string) error {
	_, err := enigma.ParseRole(tag)
	return err
}

// ValidateTemplateID validates a rotor or preset id.
func ValidateTemplateID(id string) error {
	if id == "" {
		return errors.New("template id cannot be empty")
	}
	if len(id) > MaxTemplateID {
		return fmt.Errorf("template id '%s' exceeds maximum length of %d characters", id, MaxTemplateID)
	}
	if !templateIDPattern.MatchString(id) {
		return fmt.Errorf("template id '%s' is invalid (letters, digits, '_', '.' and '-' only, starting with a letter or digit)", id)
	}
	return nil
}

// ValidateKeyLetters checks that key only holds alphabet symbols. It does
// not know how many letters a device expects.
func ValidateKeyLetters(key string) error {
	for i, r := range key {
		if !enigma.IsSymbol(r) {
			return fmt.Errorf("key letter %q at offset %d is not in A-Z", r, i)
		}
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := fieldPath(e)
		param := e.Param()
		value, _ := e.Value().(string)

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		case "wiring":
			return fmt.Errorf("%s: %w", field, ValidateWiring(value))
		case "rotortype":
			return fmt.Errorf("%s: %w", field, ValidateRotorType(value))
		case "templateid":
			return fmt.Errorf("%s: %w", field, ValidateTemplateID(value))
		case "keyletters":
			return fmt.Errorf("%s: %w", field, ValidateKeyLetters(value))
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}

	return err
}

// fieldPath drops the root struct name from the error namespace, leaving
// e.g. "rotors[3].wiring".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
