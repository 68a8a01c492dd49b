package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette. The launcher defaults to a grass-green theme; the
// light theme only swaps the neutral tones.
var (
	ColorPrimary   = lipgloss.Color("#10B981") // Emerald
	ColorSecondary = lipgloss.Color("#6EE7B7") // Light emerald
	ColorWarning   = lipgloss.Color("#FBBF24") // Amber
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#626262") // Gray
	ColorText      = lipgloss.Color("#FAFAFA") // White
	ColorSubtle    = lipgloss.Color("#A1A1AA") // Zinc
)

// Shared styles, rebuilt whenever the theme changes.
var (
	TitleStyle    lipgloss.Style
	HelpStyle     lipgloss.Style
	SelectedStyle lipgloss.Style
	ErrorStyle    lipgloss.Style
	SuccessStyle  lipgloss.Style
	WarningStyle  lipgloss.Style
	LabelStyle    lipgloss.Style
	ValueStyle    lipgloss.Style

	ActiveTabStyle   lipgloss.Style
	InactiveTabStyle lipgloss.Style

	LogInfoStyle  lipgloss.Style
	LogErrorStyle lipgloss.Style
	LogCmdStyle   lipgloss.Style

	BoxStyle        lipgloss.Style
	FocusedBoxStyle lipgloss.Style
)

func init() {
	ApplyTheme("dark")
}

// ApplyTheme switches the palette between the dark and light neutral
// tones and rebuilds every shared style.
func ApplyTheme(name string) {
	if name == "light" {
		ColorText = lipgloss.Color("#18181B")
		ColorSubtle = lipgloss.Color("#52525B")
		ColorMuted = lipgloss.Color("#A1A1AA")
	} else {
		ColorText = lipgloss.Color("#FAFAFA")
		ColorSubtle = lipgloss.Color("#A1A1AA")
		ColorMuted = lipgloss.Color("#626262")
	}

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(ColorPrimary).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().Foreground(ColorMuted)
	SelectedStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	LabelStyle = lipgloss.NewStyle().Foreground(ColorSubtle)
	ValueStyle = lipgloss.NewStyle().Foreground(ColorText)

	ActiveTabStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(ColorPrimary).
		Padding(0, 1)
	InactiveTabStyle = lipgloss.NewStyle().
		Foreground(ColorSubtle).
		Padding(0, 1)

	LogInfoStyle = lipgloss.NewStyle().Foreground(ColorSubtle)
	LogErrorStyle = lipgloss.NewStyle().Foreground(ColorError)
	LogCmdStyle = lipgloss.NewStyle().Foreground(ColorSecondary)

	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorMuted).
		Padding(0, 1)
	FocusedBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(0, 1)
}

// buildHelpText joins help items with separators, wrapping lines so no
// item is ever split across lines.
func buildHelpText(items []string, width int) string {
	if len(items) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	const sep = " • "
	var lines []string
	var line string
	for _, item := range items {
		if line == "" {
			line = item
			continue
		}
		if len(line)+len(sep)+len(item) <= width {
			line += sep + item
			continue
		}
		lines = append(lines, line)
		line = item
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// helpView renders wrapped help items in the shared help style.
func helpView(items []string, width int) string {
	return HelpStyle.Render(buildHelpText(items, width))
}
