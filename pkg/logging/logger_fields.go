package logging

import (
	"fmt"
	"time"
)

// Common field constructors
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint64(key string, value uint64) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Redacted logs only the length of a secret such as a key or a passphrase.
func Redacted(key, secret string) Field {
	return String(key, fmt.Sprintf("[redacted len=%d]", len(secret)))
}

func Component(name string) Field {
	return String("component", name)
}

func Operation(op string) Field {
	return String("operation", op)
}

func Session(id string) Field {
	return String("session", id)
}

func Preset(id string) Field {
	return String("preset", id)
}

func RotorCount(n int) Field {
	return Int("rotors", n)
}

// Length is the letter count of a message. The letters themselves are
// never logged.
func Length(n int) Field {
	return Int("length", n)
}

func Formatting(name string) Field {
	return String("formatting", name)
}

func ErrorKind(kind string) Field {
	return String("error_kind", kind)
}

func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

func Path(p string) Field {
	return String("path", p)
}
