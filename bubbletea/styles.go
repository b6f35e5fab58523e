package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/lingua"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg  lipgloss.Style
	Tutor    lipgloss.Style
	Tool     lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Speaking lipgloss.Style
	Title    lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t lingua.Theme) Styles {
	return Styles{
		UserMsg:  lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		Tutor:    lipgloss.NewStyle().Foreground(ansiColor(t.Tutor)).Bold(true),
		Tool:     lipgloss.NewStyle().Foreground(ansiColor(t.Tool)).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Success:  lipgloss.NewStyle().Foreground(ansiColor(t.Success)),
		Muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Speaking: lipgloss.NewStyle().Foreground(ansiColor(t.Speaking)).Italic(true),
		Title:    lipgloss.NewStyle().Bold(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
