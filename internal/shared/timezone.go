package shared

import (
	"fmt"
	"time"
)

// TimezoneName is the single business timezone. All day-aligned ranges,
// chart buckets and date filters are computed in this zone regardless of
// the server's local time.
const TimezoneName = "America/Sao_Paulo"

// Location is the loaded business timezone.
var Location = mustLoadLocation(TimezoneName)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("shared: load location %s: %v", name, err))
	}
	return loc
}

// StartOfDay truncates t to midnight in the business timezone.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location)
}

// EndOfDay returns 23:59:59.999 of t's day in the business timezone.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// ParseDate parses an ISO calendar date (YYYY-MM-DD) in the business timezone.
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", value, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("shared: parse date %q: %w", value, err)
	}
	return t, nil
}

// ParseDateTime parses an ISO timestamp, accepting a bare calendar date as
// midnight in the business timezone.
func ParseDateTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(Location), nil
	}
	return ParseDate(value)
}
