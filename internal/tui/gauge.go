package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mindwell/moodboard/internal/core"
)

// RenderMoodGauge draws an average on the 1-5 scale as a horizontal bar
// colored by mood. A negative value renders a dimmed "N/A" track.
func RenderMoodGauge(value float64, width int) string {
	if width < 5 {
		width = 5
	}
	track := lipgloss.NewStyle().Foreground(colorSurface)
	if value < 0 {
		return track.Render(strings.Repeat("─", width)) + dimStyle.Render(" N/A")
	}
	if value > core.MaxMoodValue {
		value = core.MaxMoodValue
	}

	filled := int(core.BarHeight(value) / 100 * float64(width))
	color := MoodColor(value)

	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("━", filled)) +
		track.Render(strings.Repeat("━", width-filled))
	label := lipgloss.NewStyle().Foreground(color).Bold(true).Render(core.FormatTenths(value) + "/5")
	return bar + " " + label
}
