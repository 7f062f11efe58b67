package reports

import (
	"fmt"
	"time"

	"github.com/vitrine-app/vitrine/internal/shared"
)

// Period selects how a reporting range is split into chart buckets.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod validates a period query parameter.
func ParsePeriod(value string) (Period, error) {
	switch Period(value) {
	case PeriodToday, PeriodWeek, PeriodMonth, PeriodYear:
		return Period(value), nil
	}
	return "", fmt.Errorf("unknown period %q", value)
}

// Bucket is one labeled calendar sub-range of a reporting period. Start and
// End are inclusive and day-aligned in the business timezone.
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

var weekdayLabels = [7]string{"Domingo", "Segunda", "Terça", "Quarta", "Quinta", "Sexta", "Sábado"}

var monthLabels = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// Buckets splits the period containing now into ordered chart buckets.
// The today period yields no buckets: callers chart the overall request
// window instead of per-bucket ranges.
func Buckets(period Period, now time.Time) []Bucket {
	now = now.In(shared.Location)

	switch period {
	case PeriodWeek:
		return weekBuckets(now)
	case PeriodMonth:
		return monthBuckets(now)
	case PeriodYear:
		return yearBuckets(now)
	}
	return nil
}

// weekBuckets covers the current calendar week, one bucket per day,
// Sunday first.
func weekBuckets(now time.Time) []Bucket {
	sunday := shared.StartOfDay(now).AddDate(0, 0, -int(now.Weekday()))

	buckets := make([]Bucket, 0, 7)
	for i := 0; i < 7; i++ {
		day := sunday.AddDate(0, 0, i)
		buckets = append(buckets, Bucket{
			Label: weekdayLabels[i],
			Start: shared.StartOfDay(day),
			End:   shared.EndOfDay(day),
		})
	}
	return buckets
}

// monthBuckets covers the current month in consecutive chunks, each ending
// on the next Sunday week boundary or on the month's last day, whichever
// comes first.
func monthBuckets(now time.Time) []Bucket {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, shared.Location)
	endOfMonth := shared.EndOfDay(start.AddDate(0, 1, -1))

	var buckets []Bucket
	for week := 1; !start.After(endOfMonth); week++ {
		end := shared.EndOfDay(start.AddDate(0, 0, daysUntilSunday(start)))
		if end.After(endOfMonth) {
			end = endOfMonth
		}
		buckets = append(buckets, Bucket{
			Label: fmt.Sprintf("Semana %d", week),
			Start: start,
			End:   end,
		})
		start = shared.StartOfDay(end.AddDate(0, 0, 1))
	}
	return buckets
}

// yearBuckets covers the current calendar year, one bucket per month.
func yearBuckets(now time.Time) []Bucket {
	buckets := make([]Bucket, 0, 12)
	for month := 1; month <= 12; month++ {
		start := time.Date(now.Year(), time.Month(month), 1, 0, 0, 0, 0, shared.Location)
		buckets = append(buckets, Bucket{
			Label: monthLabels[month-1],
			Start: start,
			End:   shared.EndOfDay(start.AddDate(0, 1, -1)),
		})
	}
	return buckets
}

func daysUntilSunday(t time.Time) int {
	return (7 - int(t.In(shared.Location).Weekday())) % 7
}
