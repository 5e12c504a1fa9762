package main

import (
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-enigma/pkg/config"
	"github.com/dd0wney/cluso-enigma/pkg/logging"
	"github.com/dd0wney/cluso-enigma/pkg/metrics"
	"github.com/dd0wney/cluso-enigma/pkg/templates"
	"github.com/dd0wney/cluso-enigma/pkg/validation"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	presetsFile := flag.String("presets", "", "YAML preset catalog (default: built-in)")
	preset := flag.String("preset", "", "Preset to start with (default EnigmaI)")
	logFile := flag.String("log-file", "", "Write JSON logs to this file (default: no logs)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadFile(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg.PresetsFile = validation.DefaultOr(*presetsFile, cfg.PresetsFile)
	cfg.DefaultPreset = validation.DefaultOr(*preset, cfg.DefaultPreset)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// The terminal belongs to the UI, so logs only go to a file.
	var logger logging.Logger = logging.NewNopLogger()
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer f.Close()
		logger = logging.NewJSONLogger(f, cfg.Level()).With(logging.Component("tui"))
	}

	catalog := templates.Default()
	if cfg.PresetsFile != "" {
		var err error
		if catalog, err = templates.LoadFile(cfg.PresetsFile); err != nil {
			log.Fatalf("Failed to load presets: %v", err)
		}
	}

	m, err := newModel(catalog, cfg.DefaultPreset, cfg.Formatting(), metrics.DefaultRegistry(), logger)
	if err != nil {
		log.Fatalf("Failed to create device: %v", err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
