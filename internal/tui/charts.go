package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mindwell/moodboard/internal/core"
)

const (
	minBarWidth = 5
	maxBarWidth = 9
	barGap      = 1
)

// barWidthFor spreads the bars across w columns within the readable range.
func barWidthFor(w, bars int) int {
	if bars <= 0 {
		return minBarWidth
	}
	bw := (w - barGap*(bars-1)) / bars
	if bw < minBarWidth {
		bw = minBarWidth
	}
	if bw > maxBarWidth {
		bw = maxBarWidth
	}
	return bw
}

// RenderMoodChart draws the chart as vertical bars scaled to the 1-5 mood
// scale, with the value above each bar and the short date below it.
func RenderMoodChart(chart core.Chart, w, h int) string {
	if chart.Empty || len(chart.Bars) == 0 {
		msg := chart.Placeholder
		if msg == "" {
			msg = core.NoChartDataMessage
		}
		return lipgloss.Place(w, max(h, 1), lipgloss.Center, lipgloss.Center, dimStyle.Render(msg))
	}

	bw := barWidthFor(w, len(chart.Bars))
	plotH := h - 2
	if plotH < 3 {
		plotH = 3
	}

	data := make([]barchart.BarData, 0, len(chart.Bars))
	for _, b := range chart.Bars {
		data = append(data, barchart.BarData{
			Values: []barchart.BarValue{{
				Name:  b.Label,
				Value: b.Value,
				Style: lipgloss.NewStyle().Foreground(MoodColor(b.Value)),
			}},
		})
	}

	plotW := bw*len(chart.Bars) + barGap*(len(chart.Bars)-1)
	bc := barchart.New(plotW, plotH,
		barchart.WithDataSet(data),
		barchart.WithMaxValue(core.MaxMoodValue),
		barchart.WithBarWidth(bw),
		barchart.WithBarGap(barGap),
		barchart.WithStyles(chartAxisStyle, chartLabelStyle),
		barchart.WithNoAxis(),
	)
	bc.Draw()

	values := make([]string, 0, len(chart.Bars))
	labels := make([]string, 0, len(chart.Bars))
	for _, b := range chart.Bars {
		values = append(values, centerCell(fmt.Sprintf("%.1f", b.Value), bw, subtextStyle))
		labels = append(labels, centerCell(b.Label, bw, chartLabelStyle))
	}
	gap := strings.Repeat(" ", barGap)

	return strings.Join([]string{
		strings.Join(values, gap),
		bc.View(),
		strings.Join(labels, gap),
	}, "\n")
}

func centerCell(s string, w int, style lipgloss.Style) string {
	s = ansi.Truncate(s, w, "")
	return lipgloss.PlaceHorizontal(w, lipgloss.Center, style.Render(s))
}
