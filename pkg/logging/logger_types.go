package logging

import (
	"io"
	"sync"
	"time"
)

// Level represents a log level
type Level int

const (
	// DebugLevel logs every keystroke batch and lookup.
	DebugLevel Level = iota
	// InfoLevel is the default logging priority
	InfoLevel
	// WarnLevel reports rejected input the session recovered from.
	WarnLevel
	// ErrorLevel reports failures that end a command or the program.
	ErrorLevel
)

// LevelNames lists the names ParseLevel understands, lowest level first.
var LevelNames = []string{"debug", "info", "warn", "error"}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// Logger is the interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With creates a child logger with the given fields pre-set
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// sink is the destination shared by a logger and all of its children, so
// that concurrent writes from siblings never interleave.
type sink struct {
	mu     sync.Mutex
	writer io.Writer
	now    func() time.Time
}

// JSONLogger implements Logger with one JSON object per line.
type JSONLogger struct {
	out    *sink
	mu     sync.RWMutex // guards level
	level  Level
	fields []Field
}

// LogEntry represents a single log entry in JSON format
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger is a logger that does nothing (useful for testing)
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) SetLevel(level Level)              {}
func (NopLogger) GetLevel() Level                   { return InfoLevel }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation measures a command from start to End.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
