package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-enigma/pkg/audit"
	"github.com/dd0wney/cluso-enigma/pkg/config"
	"github.com/dd0wney/cluso-enigma/pkg/console"
	"github.com/dd0wney/cluso-enigma/pkg/health"
	"github.com/dd0wney/cluso-enigma/pkg/logging"
	"github.com/dd0wney/cluso-enigma/pkg/metrics"
	"github.com/dd0wney/cluso-enigma/pkg/templates"
	"github.com/dd0wney/cluso-enigma/pkg/validation"
)

type options struct {
	configPath  string
	presetsFile string
	preset      string
	format      string
	logLevel    string
	metricsAddr string
	text        string
	key         string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML config file")
	flag.StringVar(&opts.presetsFile, "presets", "", "YAML preset catalog (default: built-in)")
	flag.StringVar(&opts.preset, "preset", "", "Preset to start with (default EnigmaI)")
	flag.StringVar(&opts.format, "format", "", "Ciphertext layout: original, four or five")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flag.StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics, /healthz and /readyz on this address, e.g. :9090")
	flag.StringVar(&opts.text, "text", "", "Encrypt this text, print the result and exit")
	flag.StringVar(&opts.key, "key", "", "Encryption key for -text")
	flag.Parse()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the environment and flags.
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.LoadFile(opts.configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	cfg.PresetsFile = validation.DefaultOr(opts.presetsFile, cfg.PresetsFile)
	cfg.DefaultPreset = validation.DefaultOr(opts.preset, cfg.DefaultPreset)
	cfg.Format = validation.DefaultOr(opts.format, cfg.Format)
	cfg.LogLevel = validation.DefaultOr(opts.logLevel, cfg.LogLevel)
	cfg.MetricsAddr = validation.DefaultOr(opts.metricsAddr, cfg.MetricsAddr)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.Level())
	logging.SetDefaultLogger(logger)

	catalog := templates.Default()
	if cfg.PresetsFile != "" {
		if catalog, err = templates.LoadFile(cfg.PresetsFile); err != nil {
			return err
		}
		logger.Info("preset catalog loaded", logging.Path(cfg.PresetsFile), logging.String("catalog", catalog.String()))
	}

	reg := metrics.DefaultRegistry()
	if opts.text != "" {
		return oneShot(os.Stdout, catalog, cfg, reg, opts)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MetricsAddr != "" {
		shutdown := serveOps(cfg.MetricsAddr, reg, catalog, logger)
		defer shutdown()
	}

	session, err := console.New(catalog, cfg.DefaultPreset, os.Stdout,
		console.WithLogger(logger),
		console.WithMetrics(reg),
		console.WithAudit(audit.NewAuditLogger(cfg.AuditBuffer)),
		console.WithFormatting(cfg.Formatting()),
	)
	if err != nil {
		return err
	}

	printBanner(session)

	// Scanning stdin does not observe ctx, so a signal ends the session
	// from here.
	done := make(chan error, 1)
	go func() { done <- session.Run(ctx, os.Stdin) }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		fmt.Println()
		logger.Info("interrupted")
		return nil
	}
}

// oneShot encrypts -text with -key and prints only the result.
func oneShot(w io.Writer, catalog *templates.Catalog, cfg *config.Config, reg *metrics.Registry, opts options) error {
	d, err := catalog.NewDevice(cfg.DefaultPreset)
	if err != nil {
		return err
	}
	if opts.key != "" {
		if err := d.SetEncryptionKey(strings.ToUpper(opts.key)); err != nil {
			return err
		}
		reg.RecordKeyChange(metrics.KeySourceManual)
	}

	start := time.Now()
	out, err := d.SubmitString(opts.text, cfg.Formatting())
	if err != nil {
		return err
	}
	reg.RecordMessage(cfg.DefaultPreset, cfg.Formatting().String(), len(strings.ReplaceAll(out, " ", "")), time.Since(start))
	_, err = fmt.Fprintln(w, out)
	return err
}

func opsHandler(reg *metrics.Registry, catalog *templates.Catalog) http.Handler {
	hc := health.NewHealthChecker()
	hc.RegisterLivenessCheck("memory", health.MemoryCheck(health.RuntimeMemory))
	hc.RegisterReadinessCheck("catalog", health.SelfTestCheck(catalog.SelfTest))

	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	mux.Handle("/healthz", hc.LivenessHandler())
	mux.Handle("/readyz", hc.ReadinessHandler())
	return mux
}

// serveOps serves opsHandler until the returned function is called.
func serveOps(addr string, reg *metrics.Registry, catalog *templates.Catalog, logger logging.Logger) func() {
	server := &http.Server{
		Addr:              addr,
		Handler:           opsHandler(reg, catalog),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("ops endpoint listening", logging.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops endpoint failed", logging.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Warn("ops endpoint shutdown", logging.Error(err))
		}
	}
}

func printBanner(s *console.Session) {
	desc := s.Device().Descriptor()
	fmt.Print(`
╔═══════════════════════════════════════╗
║                                       ║
║     ENIGMA  Rotor Cipher Console      ║
║                                       ║
╚═══════════════════════════════════════╝
`)
	fmt.Printf("Device: %s (%s), key %s, format %s\n", desc.ID, desc.Name, s.Device().Key(), s.Formatting())
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}
