package main

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// lampRows is the lamp board layout of the machine.
var lampRows = []string{"QWERTZUIO", "ASDFGHJK", "PYXCVBNML"}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFCC00")).
			MarginLeft(2).
			MarginTop(1)

	panelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666")).
			Padding(0, 1)

	focusedPanelStyle = panelStyle.
				BorderForeground(lipgloss.Color("#FFCC00"))

	cipherStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	lampOffStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555")).
			Padding(0, 1)

	lampOnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color("#FFCC00")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginLeft(2)
)

func (m model) View() string {
	var s strings.Builder

	desc := m.device.Descriptor()
	s.WriteString(titleStyle.Render("ENIGMA · " + desc.Name))
	s.WriteString("\n\n")

	presets := panelStyle
	if m.focus == focusPresets {
		presets = focusedPanelStyle
	}
	left := presets.Render(m.presets.View())

	right := lipgloss.JoinVertical(lipgloss.Left,
		m.panel(focusKey, m.keyInput.View()),
		m.panel(focusMessage, m.message.View()),
		panelStyle.Render("Cipher  › "+cipherStyle.Render(m.ciphertext)),
		"",
		renderLamps(m.lamp),
		"",
		"Format: "+m.format.String(),
	)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right))

	if m.status != "" {
		s.WriteString("\n\n  ")
		if m.statusErr {
			s.WriteString(errorStyle.Render("✗ " + m.status))
		} else {
			s.WriteString(successStyle.Render("✓ " + m.status))
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func (m model) panel(f focus, content string) string {
	if m.focus == f {
		return focusedPanelStyle.Render(content)
	}
	return panelStyle.Render(content)
}

// renderLamps draws the lamp board with lit highlighted.
func renderLamps(lit rune) string {
	rows := make([]string, len(lampRows))
	for i, row := range lampRows {
		lamps := make([]string, 0, len(row))
		for _, r := range row {
			style := lampOffStyle
			if r == lit {
				style = lampOnStyle
			}
			lamps = append(lamps, style.Render(string(r)))
		}
		rows[i] = strings.Join(lamps, " ")
	}
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}
