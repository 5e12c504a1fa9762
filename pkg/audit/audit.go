package audit

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Action types for audit events
type Action string

const (
	ActionSelectPreset Action = "select_preset"
	ActionForge        Action = "forge"
	ActionSetKey       Action = "set_key"
	ActionKeygen       Action = "keygen"
	ActionEncrypt      Action = "encrypt"
	ActionTrace        Action = "trace"
	ActionReset        Action = "reset"
)

// Status represents the outcome of an action
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Event is one audited console action. Detail never holds key letters,
// passphrases or message text; only ids, counts and error messages.
type Event struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Session      string         `json:"session,omitempty"`
	Action       Action         `json:"action"`
	Preset       string         `json:"preset,omitempty"`
	Status       Status         `json:"status"`
	Detail       string         `json:"detail,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Filter represents filtering criteria for audit events
type Filter struct {
	Session   string
	Action    Action
	Preset    string
	Status    Status
	StartTime *time.Time
	EndTime   *time.Time
}

func (f *Filter) matches(e *Event) bool {
	if f == nil {
		return true
	}
	switch {
	case f.Session != "" && e.Session != f.Session:
		return false
	case f.Action != "" && e.Action != f.Action:
		return false
	case f.Preset != "" && e.Preset != f.Preset:
		return false
	case f.Status != "" && e.Status != f.Status:
		return false
	case f.StartTime != nil && e.Timestamp.Before(*f.StartTime):
		return false
	case f.EndTime != nil && e.Timestamp.After(*f.EndTime):
		return false
	}
	return true
}

// Logger is the interface for audit logging implementations.
type Logger interface {
	// Log records an audit event
	Log(event *Event) error

	// GetEventCount returns the number of events logged
	GetEventCount() int64
}

// AuditLogger keeps the most recent events in a circular buffer. It is safe
// for concurrent use.
type AuditLogger struct {
	events     []*Event
	bufferSize int
	index      int
	count      int
	total      int64
	mu         sync.RWMutex
}

// NewAuditLogger creates a new audit logger with specified buffer size.
// A size below 1 is raised to 1.
func NewAuditLogger(bufferSize int) *AuditLogger {
	bufferSize = max(bufferSize, 1)
	return &AuditLogger{
		events:     make([]*Event, bufferSize),
		bufferSize: bufferSize,
	}
}

// Log records an audit event, filling in its ID and timestamp if unset.
func (l *AuditLogger) Log(event *Event) error {
	if event == nil {
		return fmt.Errorf("audit: nil event")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	l.events[l.index] = event
	l.index = (l.index + 1) % l.bufferSize
	if l.count < l.bufferSize {
		l.count++
	}
	l.total++

	return nil
}

// GetEvents returns the stored events matching filter, oldest first.
// A nil filter matches everything.
func (l *AuditLogger) GetEvents(filter *Filter) []*Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*Event, 0, l.count)
	for i := 0; i < l.count; i++ {
		idx := (l.index - l.count + i + l.bufferSize) % l.bufferSize
		if event := l.events[idx]; event != nil && filter.matches(event) {
			result = append(result, event)
		}
	}
	return result
}

// GetRecentEvents returns the N most recent events, newest first.
func (l *AuditLogger) GetRecentEvents(n int) []*Event {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n = min(max(n, 0), l.count)
	result := make([]*Event, 0, n)
	for i := 0; i < n; i++ {
		idx := (l.index - 1 - i + l.bufferSize) % l.bufferSize
		if l.events[idx] != nil {
			result = append(result, l.events[idx])
		}
	}
	return result
}

// GetEventCount returns the number of events currently stored
func (l *AuditLogger) GetEventCount() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return int64(l.count)
}

// TotalLogged returns the number of events logged since creation or the
// last Clear, including those the buffer has dropped.
func (l *AuditLogger) TotalLogged() int64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.total
}

// Clear removes all events from the logger
func (l *AuditLogger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.events = make([]*Event, l.bufferSize)
	l.index = 0
	l.count = 0
	l.total = 0
}

// NewEvent creates a successful event.
func NewEvent(session string, action Action, preset, detail string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Session:   session,
		Action:    action,
		Preset:    preset,
		Status:    StatusSuccess,
		Detail:    detail,
	}
}

// NewFailedEvent creates a failed event carrying err's message.
func NewFailedEvent(session string, action Action, preset string, err error) *Event {
	e := NewEvent(session, action, preset, "")
	e.Status = StatusFailure
	if err != nil {
		e.ErrorMessage = err.Error()
	}
	return e
}

// String returns a human-readable representation of an event
func (e *Event) String() string {
	s := fmt.Sprintf("[%s] %s %s", e.Timestamp.Format(time.RFC3339), e.Action, e.Status)
	if e.Preset != "" {
		s += " preset=" + e.Preset
	}
	if e.Detail != "" {
		s += " " + e.Detail
	}
	if e.ErrorMessage != "" {
		s += " error=" + e.ErrorMessage
	}
	return s
}
