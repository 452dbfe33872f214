package core

import "github.com/samber/lo"

// ChartWindow is how many of the most recent samples the chart shows.
const ChartWindow = 7

const (
	NoChartDataMessage = "No data available for the selected time period"
	invalidDateLabel   = "n/a"
	shortDateLayout    = "Jan 2"
)

// Bar is one chart column.
type Bar struct {
	HeightPercent float64 `json:"height_percent"`
	Label         string  `json:"label"`
	Value         float64 `json:"value"`
}

// Chart is the render-ready form of a Series. When Empty is set, Bars is nil
// and Placeholder carries the text to show instead.
type Chart struct {
	Bars        []Bar  `json:"bars"`
	Empty       bool   `json:"empty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// BuildChart keeps the tail of the series and scales each bar against the top
// of the mood scale.
func BuildChart(series Series) Chart {
	if len(series) == 0 {
		return Chart{Empty: true, Placeholder: NoChartDataMessage}
	}

	recent := lo.Subset(series, -ChartWindow, ChartWindow)
	bars := lo.Map(recent, func(s MoodSample, _ int) Bar {
		v := s.Effective()
		return Bar{
			HeightPercent: BarHeight(v),
			Label:         ShortDateLabel(s),
			Value:         v,
		}
	})
	return Chart{Bars: bars}
}

// BarHeight converts an effective value into a percentage of the scale.
func BarHeight(value float64) float64 {
	return value / MaxMoodValue * 100
}

// ShortDateLabel renders month and day without the year, e.g. "Jan 5".
func ShortDateLabel(s MoodSample) string {
	if !s.DateValid {
		return invalidDateLabel
	}
	return s.Date.Format(shortDateLayout)
}
