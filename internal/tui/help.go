package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mindwell/moodboard/internal/core"
)

// ─── Help Overlay ───────────────────────────────────────────────────────────

// renderHelpOverlay draws a centered popup explaining the chart colors, the
// trend markers and the keybindings. Dismissed by pressing any key.
func (m Model) renderHelpOverlay(screenW, screenH int) string {
	headingStyle := lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
	descStyle := lipgloss.NewStyle().Foreground(colorText)
	dimHintStyle := lipgloss.NewStyle().Foreground(colorDim).Italic(true)

	var lines []string
	lines = append(lines, brandStyle.Render("  Moodboard Help"), "")

	// ── Chart ──
	lines = append(lines, headingStyle.Render("  Chart"), "")
	lines = append(lines, "    "+descStyle.Render(fmt.Sprintf("The last %d check-ins, scaled to the 1-5 mood scale.", core.ChartWindow)))
	lines = append(lines, "    "+descStyle.Render("Days without a value are shown at the neutral 3."))
	lines = append(lines, "")
	for _, v := range []float64{1, 2, 3, 4, 5} {
		swatch := lipgloss.NewStyle().Foreground(MoodColor(v)).Render("███")
		lines = append(lines, fmt.Sprintf("    %s %s", swatch, descStyle.Render(fmt.Sprintf("%.0f", v))))
	}
	lines = append(lines, "")

	// ── Trend ──
	lines = append(lines, headingStyle.Render("  Trend"), "")
	trends := []struct {
		trend core.Trend
		desc  string
	}{
		{core.TrendImproving, "last check-in more than half a point above the first"},
		{core.TrendDeclining, "last check-in more than half a point below the first"},
		{core.TrendStable, "anything in between"},
	}
	for _, t := range trends {
		icon := lipgloss.NewStyle().Foreground(TrendColor(t.trend)).Render(TrendIcon(t.trend))
		lines = append(lines, "    "+icon+" "+helpKeyStyle.Render(padRight(string(t.trend), 10))+descStyle.Render(t.desc))
	}
	lines = append(lines, "")

	// ── Keys ──
	lines = append(lines, headingStyle.Render("  Keys"), "")
	keys := []struct{ key, desc string }{
		{"r", "Refresh now"},
		{"t / T", "Next / previous time range"},
		{"c", "Cycle color theme"},
		{"?", "Toggle this help"},
		{"q / Ctrl+C", "Quit"},
	}
	for _, k := range keys {
		lines = append(lines, "    "+helpKeyStyle.Render(padRight(k.key, 14))+descStyle.Render(k.desc))
	}
	lines = append(lines, "", "  "+dimHintStyle.Render("Press any key to dismiss"))

	return centerBox(strings.Join(lines, "\n"), screenW, screenH)
}

// centerBox wraps content in a bordered box and centers it on screen.
func centerBox(content string, screenW, screenH int) string {
	contentW := lipgloss.Width(content)
	boxW := contentW + 4
	if boxW > screenW-4 {
		boxW = screenW - 4
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2).
		Width(boxW).
		Render(content)

	return lipgloss.Place(screenW, screenH, lipgloss.Center, lipgloss.Center, box)
}

// padRight pads a string with spaces to the given width.
func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
