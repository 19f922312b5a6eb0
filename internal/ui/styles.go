// Package ui holds the styles and fixed messages the hook prints.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/cli/go-gh/v2/pkg/term"
)

// Standard color definitions.
var (
	Red    = lipgloss.Color("#f38ba8")
	Green  = lipgloss.Color("#a6e3a1")
	Yellow = lipgloss.Color("#f9e2af")
)

// Styles for summary lines.
type Styles struct {
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when color is false.
func NewStyles(color bool) Styles {
	if !color {
		plain := lipgloss.NewStyle()
		return Styles{Success: plain, Warning: plain, Error: plain}
	}

	return Styles{
		Success: lipgloss.NewStyle().Foreground(Green),
		Warning: lipgloss.NewStyle().Foreground(Yellow),
		Error:   lipgloss.NewStyle().Foreground(Red),
	}
}

// Terminal describes the attached terminal.
type Terminal struct {
	Interactive bool
	Color       bool
}

// DetectTerminal inspects the environment (TTY, NO_COLOR, CLICOLOR...).
func DetectTerminal() Terminal {
	t := term.FromEnv()
	return Terminal{
		Interactive: t.IsTerminalOutput(),
		Color:       t.IsColorEnabled(),
	}
}
