// Package console runs an interactive cipher session over a text stream.
//
// A Session owns one device at a time, selected from a template catalog or
// forged at random. Every command is logged, counted and audited; key
// material and plaintext only ever reach the session's own output.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-enigma/pkg/audit"
	"github.com/dd0wney/cluso-enigma/pkg/enigma"
	"github.com/dd0wney/cluso-enigma/pkg/keygen"
	"github.com/dd0wney/cluso-enigma/pkg/logging"
	"github.com/dd0wney/cluso-enigma/pkg/metrics"
	"github.com/dd0wney/cluso-enigma/pkg/templates"
)

// Prompt is printed before every command.
const Prompt = "enigma> "

var errUsage = errors.New("usage")

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithMetrics records session activity in r instead of the default registry.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Session) { s.metrics = r }
}

// WithAudit records session events in a.
func WithAudit(a *audit.AuditLogger) Option {
	return func(s *Session) { s.audit = a }
}

// WithFormatting sets the initial ciphertext layout.
func WithFormatting(f enigma.Formatting) Option {
	return func(s *Session) { s.format = f }
}

// WithRandom sets the entropy source of keygen and forge. Nil means crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(s *Session) { s.random = r }
}

// WithKeygenOptions tunes passphrase key derivation.
func WithKeygenOptions(opts ...keygen.Option) Option {
	return func(s *Session) { s.keygenOpts = append(s.keygenOpts, opts...) }
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(s *Session) { s.id = id }
}

// Session is one interactive user of the cipher. It is not safe for
// concurrent use.
type Session struct {
	id      string
	catalog *templates.Catalog
	out     io.Writer

	device *enigma.Device
	preset string
	format enigma.Formatting

	logger     logging.Logger
	metrics    *metrics.Registry
	audit      *audit.AuditLogger
	random     io.Reader
	keygenOpts []keygen.Option
}

// New creates a session writing to out and selects the preset with the
// given id.
func New(catalog *templates.Catalog, preset string, out io.Writer, opts ...Option) (*Session, error) {
	if catalog == nil {
		return nil, enigma.NewError("console.New").Entity("catalog").Context("nil").Cause(enigma.ErrInvalidArgument).Err()
	}
	s := &Session{
		id:      uuid.New().String(),
		catalog: catalog,
		out:     out,
		format:  enigma.FormatFiveLetterBlocks,
		logger:  logging.NewNopLogger(),
		audit:   audit.NewAuditLogger(256),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.DefaultRegistry()
	}
	s.logger = s.logger.With(logging.Component("console"), logging.Session(s.id))

	if err := s.use(preset); err != nil {
		return nil, err
	}
	return s, nil
}

// ID returns the session id attached to logs and audit events.
func (s *Session) ID() string { return s.id }

// Device returns the device in use.
func (s *Session) Device() *enigma.Device { return s.device }

// Preset returns the id of the device in use.
func (s *Session) Preset() string { return s.preset }

// Formatting returns the current ciphertext layout.
func (s *Session) Formatting() enigma.Formatting { return s.format }

// Audit returns the session's audit log.
func (s *Session) Audit() *audit.AuditLogger { return s.audit }

// Run reads commands from in until exit, end of input or ctx is done.
// Failed commands are reported on the output and the loop continues.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	s.logger.Info("session started", logging.Preset(s.preset))
	defer s.logger.Info("session ended")

	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}

		done, err := s.Execute(scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "❌ %v\n", err)
		}
		if done {
			fmt.Fprintln(s.out, "👋 Goodbye!")
			return nil
		}
	}
}

// Execute runs a single command line. done reports an exit command.
func (s *Session) Execute(line string) (done bool, err error) {
	input := strings.TrimSpace(line)
	if input == "" {
		return false, nil
	}
	command, args, _ := strings.Cut(input, " ")
	command = strings.ToLower(command)
	args = strings.TrimSpace(args)

	op := commandOp(command)
	timer := logging.StartTimer(s.logger, "command", logging.Operation(op))

	switch command {
	case "exit", "quit":
		return true, nil
	case "help":
		s.showHelp()
	case "presets":
		s.showPresets()
	case "use":
		err = s.cmdUse(args)
	case "forge":
		err = s.cmdForge(args)
	case "key", "k":
		err = s.cmdKey(args)
	case "keygen":
		err = s.cmdKeygen(args)
	case "format":
		err = s.cmdFormat(args)
	case "encrypt", "e":
		err = s.cmdEncrypt(args)
	case "trace", "t":
		err = s.cmdTrace(args)
	case "rotors":
		s.showRotors()
	case "reset":
		s.cmdReset()
	case "audit":
		err = s.cmdAudit(args)
	default:
		err = fmt.Errorf("unknown command %q (type 'help' for available commands)", command)
	}

	if err != nil {
		kind := errorKind(err)
		if op == "key" || op == "keygen" {
			// Key errors quote the offending letter.
			s.logger.Warn("command", logging.Operation(op), logging.ErrorKind(kind), logging.Latency(timer.Elapsed()))
		} else {
			timer.EndError(err, logging.ErrorKind(kind))
		}
		s.metrics.RecordError(op, kind)
		return false, err
	}
	s.metrics.RecordOperation(op, timer.End())
	return false, nil
}

// commandOp maps aliases to one operation label.
func commandOp(command string) string {
	switch command {
	case "e":
		return "encrypt"
	case "k":
		return "key"
	case "t":
		return "trace"
	case "use", "forge", "key", "keygen", "format", "encrypt", "trace",
		"rotors", "reset", "audit", "help", "presets":
		return command
	default:
		return "unknown"
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, errUsage):
		return "usage"
	case errors.Is(err, templates.ErrTemplateNotFound):
		return "template_not_found"
	default:
		return enigma.Kind(err)
	}
}

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func (s *Session) record(event *audit.Event) {
	if err := s.audit.Log(event); err != nil {
		s.logger.Warn("audit log failed", logging.Error(err))
	}
}

// setDevice swaps in d and announces it.
func (s *Session) setDevice(d *enigma.Device) {
	s.device = d
	s.preset = d.Descriptor().ID
	s.metrics.SetActivePreset(s.preset)
	s.logger.Info("device selected",
		logging.Preset(s.preset),
		logging.RotorCount(len(d.Rotors())),
	)
}
