package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	transcriptStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	questionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
)
