package main

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorAccent  = lipgloss.Color("#38BDF8") // sky-400
	colorSuccess = lipgloss.Color("#8BC34A")
	colorWarning = lipgloss.Color("#FFC107")
	colorError   = lipgloss.Color("#E53935")
	colorMuted   = lipgloss.Color("#6B7280")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	pathStyle    = lipgloss.NewStyle().Underline(true)

	promptStyle = lipgloss.NewStyle().Foreground(colorAccent)
	inputStyle  = lipgloss.NewStyle().Bold(true)
)
