package core

import "time"

// TimeRange selects how much history the progress query returns.
type TimeRange string

const (
	TimeRangeDay   TimeRange = "day"
	TimeRangeWeek  TimeRange = "week"
	TimeRangeMonth TimeRange = "month"
	TimeRangeYear  TimeRange = "year"
	TimeRangeAll   TimeRange = "all"
)

var ValidTimeRanges = []TimeRange{
	TimeRangeDay,
	TimeRangeWeek,
	TimeRangeMonth,
	TimeRangeYear,
	TimeRangeAll,
}

// Lookback returns how far back the range reaches. Zero means unbounded.
func (tr TimeRange) Lookback() time.Duration {
	switch tr {
	case TimeRangeDay:
		return 24 * time.Hour
	case TimeRangeWeek:
		return 7 * 24 * time.Hour
	case TimeRangeMonth:
		return 30 * 24 * time.Hour
	case TimeRangeYear:
		return 365 * 24 * time.Hour
	default:
		return 0
	}
}

func (tr TimeRange) Label() string {
	switch tr {
	case TimeRangeDay:
		return "Today"
	case TimeRangeWeek:
		return "Last 7 Days"
	case TimeRangeMonth:
		return "Last 30 Days"
	case TimeRangeYear:
		return "Last Year"
	case TimeRangeAll:
		return "All Time"
	default:
		return "Last 7 Days"
	}
}

// ParseTimeRange falls back to week, the API default.
func ParseTimeRange(s string) TimeRange {
	for _, tr := range ValidTimeRanges {
		if string(tr) == s {
			return tr
		}
	}
	return TimeRangeWeek
}

// NextTimeRange returns the next range in the cycle; step may be negative.
func NextTimeRange(current TimeRange, step int) TimeRange {
	n := len(ValidTimeRanges)
	for i, tr := range ValidTimeRanges {
		if tr == current {
			return ValidTimeRanges[((i+step)%n+n)%n]
		}
	}
	return TimeRangeWeek
}
