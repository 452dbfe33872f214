package core

import "time"

// MetricPoint is one progress metric as the API serializes it.
type MetricPoint struct {
	ID         int64    `json:"id,omitempty"`
	UserID     int64    `json:"user_id,omitempty"`
	Date       string   `json:"date"`
	MetricType string   `json:"metric_type,omitempty"`
	Value      *float64 `json:"value,omitempty"`
	Mood       string   `json:"mood,omitempty"`
}

// MoodSample is one normalized observation in a Series.
type MoodSample struct {
	Date      time.Time
	DateValid bool
	Value     *float64
	Mood      string
}

// Effective returns the sample value, or DefaultNeutralValue when the source
// left it out.
func (s MoodSample) Effective() float64 {
	return EffectiveValue(s.Value)
}

// Series is ordered oldest first, exactly as delivered by the API.
type Series []MoodSample

// Values maps every sample to its effective value.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, sample := range s {
		out[i] = sample.Effective()
	}
	return out
}

// Today is the pass-through "today" record shown above the chart.
type Today struct {
	Mood  string
	Value *float64
}

// NoMoodRecorded is shown when today's record carries no mood label.
const NoMoodRecorded = "No specific mood recorded"

// Label renders the line shown for today's check-in state.
func (t *Today) Label() string {
	if t == nil {
		return "No check-in yet today"
	}
	mood := t.Mood
	if mood == "" {
		mood = NoMoodRecorded
	}
	return "Your mood today: " + mood
}

func Float64Ptr(v float64) *float64 { return &v }
