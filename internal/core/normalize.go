package core

import (
	"strings"
	"time"

	"github.com/samber/lo"
)

// DefaultNeutralValue replaces a missing sample value. Samples are imputed,
// never dropped.
const DefaultNeutralValue = 3.0

// MaxMoodValue is the top of the 1-5 mood scale.
const MaxMoodValue = 5.0

// EffectiveValue applies the missing-value policy. Zero counts as missing
// because it is not on the scale.
func EffectiveValue(v *float64) float64 {
	if v == nil || *v == 0 {
		return DefaultNeutralValue
	}
	return *v
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 and the zone-less ISO forms the backend
// emits. Zone-less timestamps are read in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeSeries converts API points into a Series, keeping order and every
// point.
func NormalizeSeries(points []MetricPoint, loc *time.Location) Series {
	if len(points) == 0 {
		return Series{}
	}
	return lo.Map(points, func(p MetricPoint, _ int) MoodSample {
		date, ok := ParseTimestamp(p.Date, loc)
		return MoodSample{
			Date:      date,
			DateValid: ok,
			Value:     p.Value,
			Mood:      p.Mood,
		}
	})
}

// NormalizeToday returns nil when the API reported no check-in today.
func NormalizeToday(p *MetricPoint) *Today {
	if p == nil {
		return nil
	}
	return &Today{Mood: strings.TrimSpace(p.Mood), Value: p.Value}
}
