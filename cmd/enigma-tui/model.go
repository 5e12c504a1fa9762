package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-enigma/pkg/enigma"
	"github.com/dd0wney/cluso-enigma/pkg/logging"
	"github.com/dd0wney/cluso-enigma/pkg/metrics"
	"github.com/dd0wney/cluso-enigma/pkg/templates"
)

type focus int

const (
	focusMessage focus = iota
	focusKey
	focusPresets
	focusCount
)

type keyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Enter    key.Binding
	Format   key.Binding
	Reset    key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev field"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Format: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "format"),
	),
	Reset: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "reset rotors"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Format, k.Reset, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Enter},
		{k.Format, k.Reset, k.Quit},
	}
}

type presetItem struct {
	preset templates.DevicePreset
}

func (i presetItem) Title() string       { return i.preset.ID }
func (i presetItem) Description() string { return i.preset.Name }
func (i presetItem) FilterValue() string { return i.preset.ID + " " + i.preset.Name }

type model struct {
	catalog *templates.Catalog
	device  *enigma.Device
	format  enigma.Formatting
	metrics *metrics.Registry
	logger  logging.Logger

	focus    focus
	keyInput textinput.Model
	message  textinput.Model
	presets  list.Model
	help     help.Model
	keys     keyMap

	ciphertext string
	elapsed    time.Duration // time spent producing ciphertext
	lamp       rune          // last lamp lit, 0 if none
	status     string
	statusErr  bool
	width      int
	height     int
}

func newModel(catalog *templates.Catalog, preset string, format enigma.Formatting, reg *metrics.Registry, logger logging.Logger) (model, error) {
	ki := textinput.New()
	ki.Prompt = "Key     › "
	ki.CharLimit = 16
	ki.Width = 20

	mi := textinput.New()
	mi.Prompt = "Message › "
	mi.Placeholder = "type to encrypt"
	mi.CharLimit = 500
	mi.Width = 50
	mi.Focus()

	all := catalog.Presets()
	items := make([]list.Item, len(all))
	for i, p := range all {
		items[i] = presetItem{preset: p}
	}
	l := list.New(items, list.NewDefaultDelegate(), 32, 16)
	l.Title = "Presets"
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)

	m := model{
		catalog:  catalog,
		format:   format,
		metrics:  reg,
		logger:   logger,
		keyInput: ki,
		message:  mi,
		presets:  l,
		help:     help.New(),
		keys:     keys,
	}
	if err := m.selectPreset(preset); err != nil {
		return model{}, err
	}
	return m, nil
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.presets.SetHeight(max(msg.Height-8, 6))
		return m, nil

	case tea.KeyMsg:
		if m.focus == focusPresets && m.presets.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			return m, m.setFocus((m.focus + 1) % focusCount)
		case key.Matches(msg, m.keys.ShiftTab):
			return m, m.setFocus((m.focus + focusCount - 1) % focusCount)
		case key.Matches(msg, m.keys.Format):
			m.format = (m.format + 1) % (enigma.FormatFiveLetterBlocks + 1)
			m.encrypt()
			m.setStatus(fmt.Sprintf("Format: %s", m.format), false)
			return m, nil
		case key.Matches(msg, m.keys.Reset):
			m.device.Reset()
			m.keyInput.SetValue(m.device.Key())
			m.encrypt()
			m.setStatus("Rotors reset", false)
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			m.submit()
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusMessage:
		before := m.message.Value()
		m.message, cmd = m.message.Update(msg)
		if m.message.Value() != before {
			m.encrypt()
		}
	case focusKey:
		m.keyInput, cmd = m.keyInput.Update(msg)
	case focusPresets:
		m.presets, cmd = m.presets.Update(msg)
	}
	return m, cmd
}

func (m *model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.keyInput.Blur()
	m.message.Blur()
	switch f {
	case focusKey:
		return m.keyInput.Focus()
	case focusMessage:
		return m.message.Focus()
	}
	return nil
}

func (m *model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *model) fail(op string, err error) {
	m.setStatus(err.Error(), true)
	m.metrics.RecordError(op, enigma.Kind(err))
}

// submit applies the focused field.
func (m *model) submit() {
	switch m.focus {
	case focusKey:
		m.applyKey()
	case focusMessage:
		m.send()
	case focusPresets:
		if item, ok := m.presets.SelectedItem().(presetItem); ok {
			if err := m.selectPreset(item.preset.ID); err != nil {
				m.fail("use", err)
			}
		}
	}
}

func (m *model) selectPreset(id string) error {
	d, err := m.catalog.NewDevice(id)
	if err != nil {
		return err
	}
	m.device = d
	m.keyInput.SetValue(d.Key())
	m.metrics.SetActivePreset(id)
	m.logger.Info("device selected", logging.Preset(id), logging.RotorCount(len(d.Rotors())))
	m.encrypt()
	m.setStatus(fmt.Sprintf("Using %s, key length %d", d.Descriptor().Name, d.KeyLength()), false)
	return nil
}

// applyKey keys the device from the key field. A rejected key leaves the
// rotors where they were.
func (m *model) applyKey() {
	k := strings.ToUpper(strings.TrimSpace(m.keyInput.Value()))
	if err := m.device.SetEncryptionKey(k); err != nil {
		m.fail("key", err)
		return
	}
	m.keyInput.SetValue(k)
	m.metrics.RecordKeyChange(metrics.KeySourceManual)
	m.logger.Info("key changed", logging.Redacted("key", k))
	m.encrypt()
	m.setStatus("Key set", false)
}

// send counts the current message as sent.
func (m *model) send() {
	if m.ciphertext == "" {
		return
	}
	n := utf8.RuneCountInString(strings.ReplaceAll(m.ciphertext, " ", ""))
	m.metrics.RecordMessage(m.device.Descriptor().ID, m.format.String(), n, m.elapsed)
	m.logger.Info("message sent", logging.Length(n), logging.Formatting(m.format.String()))
	m.setStatus(fmt.Sprintf("Sent %d letters", n), false)
}

// encrypt recomputes the ciphertext of the message field.
func (m *model) encrypt() {
	text := m.message.Value()
	if text == "" {
		m.ciphertext, m.lamp = "", 0
		return
	}
	start := time.Now()
	out, err := m.device.SubmitString(text, m.format)
	m.elapsed = time.Since(start)
	if err != nil {
		m.ciphertext, m.lamp = "", 0
		m.setStatus(err.Error(), true)
		return
	}
	m.ciphertext = out
	m.lamp, _ = utf8.DecodeLastRuneInString(out)
	if m.statusErr {
		m.setStatus("", false)
	}
}
