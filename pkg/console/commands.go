package console

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dd0wney/cluso-enigma/pkg/audit"
	"github.com/dd0wney/cluso-enigma/pkg/enigma"
	"github.com/dd0wney/cluso-enigma/pkg/keygen"
	"github.com/dd0wney/cluso-enigma/pkg/logging"
	"github.com/dd0wney/cluso-enigma/pkg/metrics"
	"github.com/dd0wney/cluso-enigma/pkg/templates"
)

const defaultAuditCount = 10

const helpText = `Commands:
  presets                  List device presets
  use <preset>             Switch to a preset (rotors start at A)
  forge <n> [seed]         Build a random device with n rotors
  rotors                   Show the wheels of the current device
  key [KEY]                Show or set the encryption key
  keygen [passphrase]      Set a random key, or derive one from a passphrase
  format [original|four|five]
                           Show or set the ciphertext layout
  encrypt <text>, e        Encrypt (or decrypt) text
  trace <letter>, t        Show the signal path of one letter
  reset                    Return every rotor to A
  audit [n] [text|jsonl|csv]
                           Show the last n session events
  help                     Show this help
  exit, quit               Leave the session`

func (s *Session) showHelp() {
	fmt.Fprintln(s.out, helpText)
}

func (s *Session) showPresets() {
	for _, p := range s.catalog.Presets() {
		marker := " "
		if p.ID == s.preset {
			marker = "*"
		}
		fmt.Fprintf(s.out, "%s %-10s %-28s [%s]\n", marker, p.ID, p.Name, strings.Join(p.Rotors, " "))
	}
}

// use selects a catalog preset. On failure the current device is kept.
func (s *Session) use(id string) error {
	if id == "" {
		return usage("use <preset>")
	}
	d, err := s.catalog.NewDevice(id)
	if err != nil {
		s.record(audit.NewFailedEvent(s.id, audit.ActionSelectPreset, id, err))
		return err
	}
	s.setDevice(d)
	s.record(audit.NewEvent(s.id, audit.ActionSelectPreset, id, fmt.Sprintf("rotors=%d", len(d.Rotors()))))
	return nil
}

func (s *Session) cmdUse(args string) error {
	if err := s.use(args); err != nil {
		return err
	}
	desc := s.device.Descriptor()
	fmt.Fprintf(s.out, "✅ Using %s (%s), key length %d\n", desc.ID, desc.Name, s.device.KeyLength())
	return nil
}

func (s *Session) cmdForge(args string) error {
	fields := strings.Fields(args)
	if len(fields) < 1 || len(fields) > 2 {
		return usage("forge <n> [seed]")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return usage("forge <n> [seed]: bad rotor count %q", fields[0])
	}

	var seed uint64
	if len(fields) == 2 {
		if seed, err = strconv.ParseUint(fields[1], 10, 64); err != nil {
			return usage("forge <n> [seed]: bad seed %q", fields[1])
		}
	} else if seed, err = s.randomSeed(); err != nil {
		return err
	}

	d, err := templates.Forge(n, seed)
	if err != nil {
		s.record(audit.NewFailedEvent(s.id, audit.ActionForge, "", err))
		return err
	}
	s.setDevice(d)
	s.metrics.RecordForge()
	s.record(audit.NewEvent(s.id, audit.ActionForge, s.preset, fmt.Sprintf("rotors=%d seed=%d", n, seed)))
	fmt.Fprintf(s.out, "✅ Forged %s, key length %d\n", s.preset, d.KeyLength())
	return nil
}

func (s *Session) randomSeed() (uint64, error) {
	src := s.random
	if src == nil {
		src = rand.Reader
	}
	var buf [8]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read seed: %w", err)
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}

func (s *Session) cmdKey(args string) error {
	if args == "" {
		fmt.Fprintf(s.out, "Key: %s\n", s.device.Key())
		return nil
	}
	return s.applyKey(strings.ToUpper(args), metrics.KeySourceManual, audit.ActionSetKey)
}

// applyKey sets key on the device. A rejected key leaves the rotors alone.
func (s *Session) applyKey(key, source string, action audit.Action) error {
	if err := s.device.SetEncryptionKey(key); err != nil {
		s.record(audit.NewFailedEvent(s.id, action, s.preset, err))
		return err
	}
	s.metrics.RecordKeyChange(source)
	s.logger.Info("key changed",
		logging.Preset(s.preset),
		logging.String("source", source),
		logging.Redacted("key", key),
	)
	s.record(audit.NewEvent(s.id, action, s.preset, "source="+source))
	fmt.Fprintf(s.out, "Key: %s\n", key)
	return nil
}

func (s *Session) cmdKeygen(passphrase string) error {
	if passphrase == "" {
		key, err := keygen.Random(s.device, s.random)
		if err != nil {
			return err
		}
		return s.applyKey(key, metrics.KeySourceRandom, audit.ActionKeygen)
	}

	// Salted per preset: one passphrase gives each preset its own key.
	salt := []byte("enigma/" + s.preset)
	key, err := keygen.Derive(s.device, passphrase, salt, s.keygenOpts...)
	if err != nil {
		return err
	}
	return s.applyKey(key, metrics.KeySourceDerived, audit.ActionKeygen)
}

func (s *Session) cmdFormat(args string) error {
	if args == "" {
		fmt.Fprintf(s.out, "Format: %s\n", s.format)
		return nil
	}
	f, err := enigma.ParseFormatting(args)
	if err != nil {
		return err
	}
	s.format = f
	fmt.Fprintf(s.out, "Format: %s\n", f)
	return nil
}

func (s *Session) cmdEncrypt(text string) error {
	if text == "" {
		return usage("encrypt <text>")
	}
	start := time.Now()
	out, err := s.device.SubmitString(text, s.format)
	if err != nil {
		s.record(audit.NewFailedEvent(s.id, audit.ActionEncrypt, s.preset, err))
		return err
	}
	length := utf8.RuneCountInString(strings.ReplaceAll(out, " ", ""))
	s.metrics.RecordMessage(s.preset, s.format.String(), length, time.Since(start))
	s.logger.Debug("message encrypted",
		logging.Preset(s.preset),
		logging.Length(length),
		logging.Formatting(s.format.String()),
	)
	s.record(audit.NewEvent(s.id, audit.ActionEncrypt, s.preset, fmt.Sprintf("length=%d", length)))
	fmt.Fprintln(s.out, out)
	return nil
}

func (s *Session) cmdTrace(args string) error {
	upper := strings.ToUpper(args)
	letter, size := utf8.DecodeRuneInString(upper)
	if size == 0 || size != len(upper) {
		return usage("trace <letter>")
	}
	start := time.Now()
	out, trace, err := s.device.PressKeyTrace(letter)
	if err != nil {
		s.record(audit.NewFailedEvent(s.id, audit.ActionTrace, s.preset, err))
		return err
	}
	s.metrics.RecordTrace(time.Since(start))
	s.record(audit.NewEvent(s.id, audit.ActionTrace, s.preset, fmt.Sprintf("steps=%d", len(trace))))

	fmt.Fprintf(s.out, "%c -> %c\n", letter, out)
	for _, step := range trace {
		fmt.Fprintf(s.out, "  %2d %-9s %-9s %c -> %c\n",
			step.Rotor, step.Role, step.Phase, 'A'+step.Input, 'A'+step.Output)
	}
	fmt.Fprintf(s.out, "  %s\n", trace)
	return nil
}

func (s *Session) showRotors() {
	desc := s.device.Descriptor()
	fmt.Fprintf(s.out, "%s (%s), key %s\n", desc.ID, desc.Name, s.device.Key())
	for i, r := range s.device.Rotors() {
		fmt.Fprintf(s.out, "  %2d %-9s %-8s %c %s\n", i, r.Role(), r.Descriptor().ID, r.Key(), r)
	}
}

func (s *Session) cmdReset() {
	s.device.Reset()
	s.record(audit.NewEvent(s.id, audit.ActionReset, s.preset, ""))
	fmt.Fprintf(s.out, "Key: %s\n", s.device.Key())
}

func (s *Session) cmdAudit(args string) error {
	n := defaultAuditCount
	format := audit.FormatText
	for _, field := range strings.Fields(args) {
		if v, err := strconv.Atoi(field); err == nil {
			if v < 1 {
				return usage("audit [n] [text|jsonl|csv]: n must be positive")
			}
			n = v
			continue
		}
		f, err := audit.ParseExportFormat(field)
		if err != nil {
			return err
		}
		format = f
	}

	events := s.audit.GetRecentEvents(n)
	slices.Reverse(events)
	return audit.Export(s.out, events, format)
}
