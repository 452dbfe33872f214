package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mindwell/moodboard/internal/core"
)

var (
	colorBase    lipgloss.Color
	colorSurface lipgloss.Color
	colorText    lipgloss.Color
	colorSubtext lipgloss.Color
	colorDim     lipgloss.Color
	colorAccent  lipgloss.Color
	colorBlue    lipgloss.Color
	colorTeal    lipgloss.Color
	colorGreen   lipgloss.Color
	colorYellow  lipgloss.Color
	colorPeach   lipgloss.Color
	colorRed     lipgloss.Color
)

var (
	brandStyle        lipgloss.Style
	headerStyle       lipgloss.Style
	sectionTitleStyle lipgloss.Style
	textStyle         lipgloss.Style
	subtextStyle      lipgloss.Style
	dimStyle          lipgloss.Style
	helpStyle         lipgloss.Style
	helpKeyStyle      lipgloss.Style
	errorStyle        lipgloss.Style
	panelStyle        lipgloss.Style
	chartAxisStyle    lipgloss.Style
	chartLabelStyle   lipgloss.Style
)

// applyTheme swaps the palette and rebuilds every derived style.
func applyTheme(t Theme) {
	colorBase = t.Base
	colorSurface = t.Surface
	colorText = t.Text
	colorSubtext = t.Subtext
	colorDim = t.Dim
	colorAccent = t.Accent
	colorBlue = t.Blue
	colorTeal = t.Teal
	colorGreen = t.Green
	colorYellow = t.Yellow
	colorPeach = t.Peach
	colorRed = t.Red

	brandStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	sectionTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	textStyle = lipgloss.NewStyle().Foreground(colorText)
	subtextStyle = lipgloss.NewStyle().Foreground(colorSubtext)
	dimStyle = lipgloss.NewStyle().Foreground(colorDim)
	helpStyle = lipgloss.NewStyle().Foreground(colorDim)
	helpKeyStyle = lipgloss.NewStyle().Foreground(colorTeal).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSurface).
		Padding(0, 1)
	chartAxisStyle = lipgloss.NewStyle().Foreground(colorDim)
	chartLabelStyle = lipgloss.NewStyle().Foreground(colorSubtext)
}

// MoodColor maps an effective 1-5 value onto the red to green ramp.
func MoodColor(value float64) lipgloss.Color {
	switch {
	case value < 1.5:
		return colorRed
	case value < 2.5:
		return colorPeach
	case value < 3.5:
		return colorYellow
	case value < 4.5:
		return colorTeal
	default:
		return colorGreen
	}
}

func TrendColor(t core.Trend) lipgloss.Color {
	switch t {
	case core.TrendImproving:
		return colorGreen
	case core.TrendDeclining:
		return colorRed
	default:
		return colorBlue
	}
}

// TrendIcon is a one-glyph summary for the header.
func TrendIcon(t core.Trend) string {
	switch t {
	case core.TrendImproving:
		return "▲"
	case core.TrendDeclining:
		return "▼"
	default:
		return "●"
	}
}

// SpinnerFrames drive the refresh indicator.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
