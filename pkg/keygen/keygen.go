// Package keygen produces encryption keys that a device is guaranteed to
// accept.
package keygen

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/pbkdf2"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
)

const (
	SaltSize          = 32     // GenerateSalt output length
	MinSaltSize       = 8      // shortest salt Derive accepts
	DefaultIterations = 600000 // OWASP recommended minimum for PBKDF2-SHA256
)

// Option tunes key derivation.
type Option func(*options)

type options struct {
	iterations int
}

// WithIterations overrides the PBKDF2 iteration count.
func WithIterations(n int) Option {
	return func(o *options) { o.iterations = n }
}

// Random draws a key for d from src, uniformly over every keyed rotor's
// valid positions. A nil src means crypto/rand.
func Random(d *enigma.Device, src io.Reader) (string, error) {
	if src == nil {
		src = rand.Reader
	}
	buf := make([]byte, 8*d.KeyLength())
	if _, err := io.ReadFull(src, buf); err != nil {
		return "", fmt.Errorf("failed to read key material: %w", err)
	}
	return keyFrom(d, buf), nil
}

// Derive turns a passphrase into a key for d with PBKDF2-SHA256. Equal
// passphrase, salt and device layout always give the same key.
func Derive(d *enigma.Device, passphrase string, salt []byte, opts ...Option) (string, error) {
	o := options{iterations: DefaultIterations}
	for _, opt := range opts {
		opt(&o)
	}
	if passphrase == "" {
		return "", enigma.NewError("Derive").Entity("passphrase").Context("empty").Cause(enigma.ErrInvalidArgument).Err()
	}
	if len(salt) < MinSaltSize {
		return "", enigma.NewError("Derive").Entity("salt").
			Contextf("%d bytes, want at least %d", len(salt), MinSaltSize).Cause(enigma.ErrInvalidArgument).Err()
	}
	if o.iterations < 1 {
		return "", enigma.NewError("Derive").Entity("iterations").
			Value(fmt.Sprint(o.iterations)).Cause(enigma.ErrInvalidArgument).Err()
	}

	material := pbkdf2.Key([]byte(passphrase), salt, o.iterations, 8*d.KeyLength(), sha256.New)
	return keyFrom(d, material), nil
}

// GenerateSalt generates a cryptographically secure random salt
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// keyFrom spends 8 bytes of material per keyed rotor. Reducing a 64-bit
// value modulo at most 26 leaves a bias below 2^-58.
func keyFrom(d *enigma.Device, material []byte) string {
	var sb strings.Builder
	for i, r := range d.KeyedRotors() {
		valid := r.ValidPositions()
		v := binary.BigEndian.Uint64(material[8*i:])
		sb.WriteRune(rune('A' + valid[v%uint64(len(valid))]))
	}
	return sb.String()
}
