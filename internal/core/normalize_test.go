package core

import (
	"testing"
	"time"
)

func TestEffectiveValue(t *testing.T) {
	if got := EffectiveValue(nil); got != 3 {
		t.Errorf("EffectiveValue(nil) = %v, want 3", got)
	}
	if got := EffectiveValue(Float64Ptr(0)); got != 3 {
		t.Errorf("EffectiveValue(0) = %v, want 3", got)
	}
	if got := EffectiveValue(Float64Ptr(4.5)); got != 4.5 {
		t.Errorf("EffectiveValue(4.5) = %v, want 4.5", got)
	}
	if got := EffectiveValue(Float64Ptr(9)); got != 9 {
		t.Errorf("EffectiveValue(9) = %v, want 9 (not clamped)", got)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		ok      bool
		wantDay int
	}{
		{"2024-03-07T10:15:00.123456", true, 7},
		{"2024-03-07T10:15:00+00:00", true, 7},
		{"2024-03-07T10:15:00Z", true, 7},
		{"2024-03-07 10:15:00", true, 7},
		{"2024-03-07", true, 7},
		{"", false, 0},
		{"yesterday", false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in, time.UTC)
			if ok != tt.ok {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got.Day() != tt.wantDay {
				t.Fatalf("ParseTimestamp(%q) day = %d, want %d", tt.in, got.Day(), tt.wantDay)
			}
		})
	}
}

func TestNormalizeSeries_KeepsOrderAndBadDates(t *testing.T) {
	points := []MetricPoint{
		{Date: "2024-01-01T08:00:00", Value: Float64Ptr(2)},
		{Date: "garbage"},
		{Date: "2024-01-03T08:00:00", Value: Float64Ptr(5)},
	}
	series := NormalizeSeries(points, time.UTC)
	if len(series) != 3 {
		t.Fatalf("len = %d, want 3", len(series))
	}
	if series[1].DateValid {
		t.Fatal("series[1].DateValid = true, want false")
	}
	if series[1].Effective() != DefaultNeutralValue {
		t.Fatalf("series[1] effective = %v, want %v", series[1].Effective(), DefaultNeutralValue)
	}
	if series[2].Date.Day() != 3 {
		t.Fatalf("series[2] day = %d, want 3", series[2].Date.Day())
	}
}

func TestNormalizeSeries_EmptyIsNonNil(t *testing.T) {
	if s := NormalizeSeries(nil, time.UTC); s == nil || len(s) != 0 {
		t.Fatalf("NormalizeSeries(nil) = %#v, want empty non-nil", s)
	}
}

func TestTodayLabel(t *testing.T) {
	var none *Today
	if got := none.Label(); got != "No check-in yet today" {
		t.Errorf("nil Label() = %q", got)
	}
	if got := (&Today{}).Label(); got != "Your mood today: No specific mood recorded" {
		t.Errorf("blank Label() = %q", got)
	}
	if got := (&Today{Mood: "Calm"}).Label(); got != "Your mood today: Calm" {
		t.Errorf("Label() = %q", got)
	}
}

func TestMoodValue(t *testing.T) {
	tests := []struct {
		mood string
		want float64
		ok   bool
	}{
		{"Sad", 1, true},
		{"Stressed", 2, true},
		{"Neutral", 3, true},
		{"Calm", 4, true},
		{"Grateful", 5, true},
		{"Conflicted", 2, true},
		{"Worried", 3, true},
		{"sad", 0, false},
		{"Sleepy", 0, false},
	}
	for _, tt := range tests {
		got, ok := MoodValue(tt.mood)
		if ok != tt.ok || got != tt.want {
			t.Errorf("MoodValue(%q) = (%v, %v), want (%v, %v)", tt.mood, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCanonicalMood(t *testing.T) {
	if got, ok := CanonicalMood("  calm "); !ok || got != "Calm" {
		t.Fatalf("CanonicalMood(calm) = (%q, %v)", got, ok)
	}
	if _, ok := CanonicalMood("sleepy"); ok {
		t.Fatal("CanonicalMood(sleepy) ok = true")
	}
}
