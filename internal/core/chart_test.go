package core

import (
	"fmt"
	"testing"
	"time"
)

func seriesOf(values ...*float64) Series {
	base := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	out := make(Series, len(values))
	for i, v := range values {
		out[i] = MoodSample{Date: base.AddDate(0, 0, i), DateValid: true, Value: v}
	}
	return out
}

func vals(vs ...float64) []*float64 {
	out := make([]*float64, len(vs))
	for i, v := range vs {
		out[i] = Float64Ptr(v)
	}
	return out
}

func TestBuildChart_EmptySeriesShowsPlaceholder(t *testing.T) {
	chart := BuildChart(nil)
	if !chart.Empty {
		t.Fatal("Empty = false, want true")
	}
	if chart.Placeholder != NoChartDataMessage {
		t.Fatalf("Placeholder = %q, want %q", chart.Placeholder, NoChartDataMessage)
	}
	if len(chart.Bars) != 0 {
		t.Fatalf("bars = %d, want 0", len(chart.Bars))
	}
}

func TestBuildChart_ShortSeriesKeepsEverySampleInOrder(t *testing.T) {
	for n := 1; n <= ChartWindow; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			vs := make([]float64, n)
			for i := range vs {
				vs[i] = float64(i%5 + 1)
			}
			series := seriesOf(vals(vs...)...)
			chart := BuildChart(series)
			if chart.Empty {
				t.Fatal("Empty = true for non-empty series")
			}
			if len(chart.Bars) != n {
				t.Fatalf("bars = %d, want %d", len(chart.Bars), n)
			}
			for i, bar := range chart.Bars {
				if bar.Value != vs[i] {
					t.Errorf("bar[%d].Value = %v, want %v", i, bar.Value, vs[i])
				}
				if want := ShortDateLabel(series[i]); bar.Label != want {
					t.Errorf("bar[%d].Label = %q, want %q", i, bar.Label, want)
				}
			}
		})
	}
}

func TestBuildChart_LongSeriesKeepsLastSeven(t *testing.T) {
	series := seriesOf(vals(1, 2, 3, 4, 5, 1, 2, 3, 4, 5)...)
	chart := BuildChart(series)
	if len(chart.Bars) != ChartWindow {
		t.Fatalf("bars = %d, want %d", len(chart.Bars), ChartWindow)
	}
	tail := series[len(series)-ChartWindow:]
	for i, bar := range chart.Bars {
		if bar.Label != ShortDateLabel(tail[i]) {
			t.Errorf("bar[%d].Label = %q, want %q", i, bar.Label, ShortDateLabel(tail[i]))
		}
		if bar.Value != tail[i].Effective() {
			t.Errorf("bar[%d].Value = %v, want %v", i, bar.Value, tail[i].Effective())
		}
	}
	if chart.Bars[0].Label != "Jan 4" {
		t.Errorf("first bar label = %q, want Jan 4", chart.Bars[0].Label)
	}
	if chart.Bars[6].Label != "Jan 10" {
		t.Errorf("last bar label = %q, want Jan 10", chart.Bars[6].Label)
	}
}

func TestBuildChart_HeightsScaleAgainstFive(t *testing.T) {
	tests := []struct {
		value *float64
		want  float64
	}{
		{Float64Ptr(1), 20},
		{Float64Ptr(2), 40},
		{Float64Ptr(3), 60},
		{Float64Ptr(4), 80},
		{Float64Ptr(5), 100},
		{nil, 60},
		{Float64Ptr(0), 60},
	}
	for _, tt := range tests {
		chart := BuildChart(seriesOf(tt.value))
		if got := chart.Bars[0].HeightPercent; got != tt.want {
			t.Errorf("height(%v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestBuildChart_HeightsStayInRange(t *testing.T) {
	for v := 1.0; v <= 5.0; v += 0.25 {
		h := BarHeight(v)
		if h < 20 || h > 100 {
			t.Fatalf("BarHeight(%v) = %v, want within [20,100]", v, h)
		}
	}
}

func TestBuildChart_EightNeutralSamples(t *testing.T) {
	chart := BuildChart(seriesOf(vals(3, 3, 3, 3, 3, 3, 3, 3)...))
	if len(chart.Bars) != 7 {
		t.Fatalf("bars = %d, want 7", len(chart.Bars))
	}
	for i, bar := range chart.Bars {
		if bar.HeightPercent != 60 {
			t.Errorf("bar[%d] height = %v, want 60", i, bar.HeightPercent)
		}
	}
}

func TestShortDateLabel(t *testing.T) {
	s := MoodSample{Date: time.Date(2025, time.January, 5, 23, 0, 0, 0, time.UTC), DateValid: true}
	if got := ShortDateLabel(s); got != "Jan 5" {
		t.Fatalf("ShortDateLabel = %q, want Jan 5", got)
	}
	if got := ShortDateLabel(MoodSample{}); got != "n/a" {
		t.Fatalf("ShortDateLabel(invalid) = %q, want n/a", got)
	}
}
