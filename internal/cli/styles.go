// Package cli renders categorization sessions on a plain terminal and reads
// keys from it.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette colors, shared with the default TUI theme.
var (
	accent = lipgloss.Color("#F2A541") // amber
	green  = lipgloss.Color("#4ECDC4")
	yellow = lipgloss.Color("#FFE66D")
	red    = lipgloss.Color("#FF6B6B")
	teal   = lipgloss.Color("#95E1D3")
	gray   = lipgloss.Color("#666666")
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	KeyStyle     = lipgloss.NewStyle().Bold(true).Foreground(accent)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(green)
	WarningStyle = lipgloss.NewStyle().Foreground(yellow)
	ErrorStyle   = lipgloss.NewStyle().Foreground(red)
	SubtleStyle  = lipgloss.NewStyle().Foreground(gray)

	infoStyle = lipgloss.NewStyle().Foreground(teal)
	boxStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(gray).
			Padding(0, 2)
)

// Icons used in session output.
const (
	RobotIcon  = "🤖"
	ChartIcon  = "📊"
	SearchIcon = "🔍"
	SkipIcon   = "⏭️"
)

func status(style lipgloss.Style, icon, message string) string {
	return style.Render(icon + " " + message)
}

func FormatSuccess(message string) string { return status(SuccessStyle, "✓", message) }
func FormatError(message string) string   { return status(ErrorStyle, "✗", message) }
func FormatWarning(message string) string { return status(WarningStyle, "⚠️", message) }
func FormatInfo(message string) string    { return status(infoStyle, "ℹ️", message) }
func FormatTitle(title string) string     { return status(TitleStyle, "💰", title) }

// FormatPrompt renders the input prompt shown after the options.
func FormatPrompt(prompt string) string {
	return KeyStyle.Render(prompt + " → ")
}

// FormatKey renders an option as "[k] label".
func FormatKey(key, label string) string {
	return KeyStyle.Render("["+key+"]") + " " + label
}

// RenderBox frames content under a title.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}
