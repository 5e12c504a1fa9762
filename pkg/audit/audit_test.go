package audit

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAuditLogger_LogEvent(t *testing.T) {
	logger := NewAuditLogger(100)

	tests := []struct {
		name  string
		event *Event
	}{
		{
			name:  "Preset selection",
			event: &Event{Session: "s1", Action: ActionSelectPreset, Preset: "EnigmaI", Status: StatusSuccess},
		},
		{
			name:  "Rejected key",
			event: &Event{Session: "s1", Action: ActionSetKey, Preset: "EnigmaI", Status: StatusFailure, ErrorMessage: "invalid mapping"},
		},
		{
			name: "Encrypted message",
			event: &Event{
				Session:  "s1",
				Action:   ActionEncrypt,
				Preset:   "EnigmaI",
				Status:   StatusSuccess,
				Metadata: map[string]any{"length": 12},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := logger.Log(tt.event); err != nil {
				t.Fatalf("Log() error = %v", err)
			}
			if _, err := uuid.Parse(tt.event.ID); err != nil {
				t.Errorf("Log() assigned ID %q, not a UUID", tt.event.ID)
			}
			if tt.event.Timestamp.IsZero() {
				t.Error("Log() did not set a timestamp")
			}
		})
	}

	if got := logger.GetEventCount(); got != 3 {
		t.Errorf("GetEventCount() = %d, want 3", got)
	}
	if err := logger.Log(nil); err == nil {
		t.Error("Log(nil) should fail")
	}
}

func TestAuditLogger_KeepsIDAndTimestamp(t *testing.T) {
	logger := NewAuditLogger(4)
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e := &Event{ID: "fixed", Timestamp: ts, Action: ActionReset, Status: StatusSuccess}
	_ = logger.Log(e)

	if e.ID != "fixed" || !e.Timestamp.Equal(ts) {
		t.Errorf("Log() overwrote preset fields: %+v", e)
	}
}

func TestAuditLogger_CircularBuffer(t *testing.T) {
	logger := NewAuditLogger(3)

	for i := 0; i < 5; i++ {
		_ = logger.Log(&Event{Action: ActionEncrypt, Status: StatusSuccess, Detail: fmt.Sprintf("msg %d", i)})
	}

	if got := logger.GetEventCount(); got != 3 {
		t.Errorf("GetEventCount() = %d, want 3", got)
	}
	if got := logger.TotalLogged(); got != 5 {
		t.Errorf("TotalLogged() = %d, want 5", got)
	}

	events := logger.GetEvents(nil)
	if len(events) != 3 {
		t.Fatalf("GetEvents() returned %d events, want 3", len(events))
	}
	for i, e := range events {
		if want := fmt.Sprintf("msg %d", i+2); e.Detail != want {
			t.Errorf("events[%d].Detail = %q, want %q (oldest first)", i, e.Detail, want)
		}
	}

	recent := logger.GetRecentEvents(2)
	if len(recent) != 2 || recent[0].Detail != "msg 4" || recent[1].Detail != "msg 3" {
		t.Errorf("GetRecentEvents(2) = %v, want msg 4, msg 3", recent)
	}
	if got := len(logger.GetRecentEvents(10)); got != 3 {
		t.Errorf("GetRecentEvents(10) returned %d events, want 3", got)
	}
	if got := len(logger.GetRecentEvents(-1)); got != 0 {
		t.Errorf("GetRecentEvents(-1) returned %d events, want 0", got)
	}
}

func TestAuditLogger_Filter(t *testing.T) {
	logger := NewAuditLogger(10)
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	_ = logger.Log(&Event{Session: "a", Action: ActionSelectPreset, Preset: "EnigmaI", Status: StatusSuccess, Timestamp: base})
	_ = logger.Log(&Event{Session: "a", Action: ActionSetKey, Preset: "EnigmaI", Status: StatusFailure, Timestamp: base.Add(time.Minute)})
	_ = logger.Log(&Event{Session: "b", Action: ActionSetKey, Preset: "M3", Status: StatusSuccess, Timestamp: base.Add(2 * time.Minute)})
	_ = logger.Log(&Event{Session: "b", Action: ActionEncrypt, Preset: "M3", Status: StatusSuccess, Timestamp: base.Add(3 * time.Minute)})

	start := base.Add(90 * time.Second)
	end := base.Add(150 * time.Second)

	tests := []struct {
		name   string
		filter *Filter
		want   int
	}{
		{"nil filter", nil, 4},
		{"empty filter", &Filter{}, 4},
		{"by session", &Filter{Session: "a"}, 2},
		{"by action", &Filter{Action: ActionSetKey}, 2},
		{"by preset", &Filter{Preset: "M3"}, 2},
		{"by status", &Filter{Status: StatusFailure}, 1},
		{"by action and status", &Filter{Action: ActionSetKey, Status: StatusSuccess}, 1},
		{"time window", &Filter{StartTime: &start, EndTime: &end}, 1},
		{"no match", &Filter{Action: ActionTrace}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(logger.GetEvents(tt.filter)); got != tt.want {
				t.Errorf("GetEvents() returned %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestAuditLogger_Clear(t *testing.T) {
	logger := NewAuditLogger(5)
	_ = logger.Log(NewEvent("s", ActionReset, "Mirror", ""))
	logger.Clear()

	if logger.GetEventCount() != 0 || logger.TotalLogged() != 0 {
		t.Error("Clear() left events behind")
	}
	if len(logger.GetEvents(nil)) != 0 {
		t.Error("GetEvents() after Clear() is not empty")
	}
}

func TestAuditLogger_MinimumBuffer(t *testing.T) {
	logger := NewAuditLogger(0)
	_ = logger.Log(NewEvent("s", ActionReset, "", ""))
	_ = logger.Log(NewEvent("s", ActionTrace, "", ""))

	events := logger.GetEvents(nil)
	if len(events) != 1 || events[0].Action != ActionTrace {
		t.Errorf("GetEvents() = %v, want only the last event", events)
	}
}

func TestAuditLogger_Concurrent(t *testing.T) {
	logger := NewAuditLogger(1000)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = logger.Log(NewEvent(fmt.Sprint(i), ActionEncrypt, "EnigmaI", ""))
				_ = logger.GetRecentEvents(5)
			}
		}(i)
	}
	wg.Wait()

	if got := logger.GetEventCount(); got != 500 {
		t.Errorf("GetEventCount() = %d, want 500", got)
	}
}

func TestNewEventHelpers(t *testing.T) {
	ok := NewEvent("s1", ActionForge, "Forge-3-42", "rotors=3")
	if ok.Status != StatusSuccess || ok.ID == "" || ok.Timestamp.IsZero() {
		t.Errorf("NewEvent() = %+v", ok)
	}

	failed := NewFailedEvent("s1", ActionSetKey, "EnigmaI", errors.New("invalid mapping"))
	if failed.Status != StatusFailure || failed.ErrorMessage != "invalid mapping" {
		t.Errorf("NewFailedEvent() = %+v", failed)
	}
	if ok.ID == failed.ID {
		t.Error("events share an ID")
	}
}

func TestEventString(t *testing.T) {
	e := &Event{
		Timestamp:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Action:       ActionSetKey,
		Preset:       "EnigmaI",
		Status:       StatusFailure,
		ErrorMessage: "invalid mapping",
	}
	want := "[2026-05-01T10:00:00Z] set_key failure preset=EnigmaI error=invalid mapping"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	e2 := &Event{Timestamp: e.Timestamp, Action: ActionReset, Status: StatusSuccess, Detail: "rotors=5"}
	if got := e2.String(); !strings.HasSuffix(got, "reset success rotors=5") {
		t.Errorf("String() = %q", got)
	}
}
