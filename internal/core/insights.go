package core

import (
	"fmt"
	"math"
	"strings"
)

// Trend is derived from the first and last sample of the full series.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendDeclining Trend = "declining"
	TrendStable    Trend = "stable"
)

// TrendMargin is how far the last value must move from the first before the
// trend leaves stable.
const TrendMargin = 0.5

const NotEnoughDataMessage = "Not enough data yet. Check in daily to see your progress!"

// ClassifyTrend compares the last value against the first with a symmetric
// margin.
func ClassifyTrend(first, last float64) Trend {
	switch {
	case last > first+TrendMargin:
		return TrendImproving
	case last < first-TrendMargin:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// Remark is the tone-matched closing line for a trend.
func (t Trend) Remark() string {
	switch t {
	case TrendImproving:
		return "Great job! Keep up the positive momentum!"
	case TrendDeclining:
		return "Consider reaching out for support if this trend continues."
	default:
		return "Consistency is key to understanding your mental health patterns."
	}
}

// Insights summarizes a Series. Empty series produce Empty=true and no figures.
type Insights struct {
	Empty       bool    `json:"empty"`
	Average     float64 `json:"average"`
	AverageText string  `json:"average_text"`
	Trend       Trend   `json:"trend,omitempty"`
	Samples     int     `json:"samples"`
}

// GenerateInsights averages every sample (not just the charted window) and
// classifies the trend end to end.
func GenerateInsights(series Series) Insights {
	if len(series) == 0 {
		return Insights{Empty: true}
	}

	values := series.Values()
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))

	return Insights{
		Average:     avg,
		AverageText: FormatTenths(avg),
		Trend:       ClassifyTrend(values[0], values[len(values)-1]),
		Samples:     len(values),
	}
}

// FormatTenths prints v to one decimal, rounding halves up (3.25 -> "3.3").
func FormatTenths(v float64) string {
	return fmt.Sprintf("%.1f", math.Floor(v*10+0.5)/10)
}

// Lines returns the summary sentences in display order.
func (in Insights) Lines() []string {
	if in.Empty {
		return []string{NotEnoughDataMessage}
	}
	return []string{
		fmt.Sprintf("Your average mood has been %s/5 over this period.", in.AverageText),
		fmt.Sprintf("Your mood trend appears to be %s.", in.Trend),
		in.Trend.Remark(),
	}
}

// Text joins the summary with blank lines.
func (in Insights) Text() string {
	return strings.Join(in.Lines(), "\n\n")
}

// Markup joins the summary with HTML line breaks.
func (in Insights) Markup() string {
	return strings.Join(in.Lines(), "\n<br><br>\n")
}
