package domain

import (
	"fmt"
	"strings"
	"time"
)

// Granularity - размер периода отчета.
type Granularity string

const (
	GranularityDaily   Granularity = "daily"
	GranularityWeekly  Granularity = "weekly"
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
)

// Сколько последних периодов попадает в отчет.
const (
	DayStatsThreshold   = 7
	WeekStatsThreshold  = 5
	MonthStatsThreshold = 6
	YearStatsThreshold  = 5
)

func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case GranularityDaily, GranularityWeekly, GranularityMonthly, GranularityYearly:
		return g, nil
	}
	return "", ErrInvalidInterval
}

// BucketCount возвращает число периодов для гранулярности.
func (g Granularity) BucketCount() int {
	switch g {
	case GranularityDaily:
		return DayStatsThreshold
	case GranularityWeekly:
		return WeekStatsThreshold
	case GranularityMonthly:
		return MonthStatsThreshold
	case GranularityYearly:
		return YearStatsThreshold
	}
	return 0
}

// Bucket - календарный период [Start, End). End совпадает со Start следующего периода.
type Bucket struct {
	Start time.Time
	End   time.Time
	Label string
}

func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// BuildBuckets возвращает count последовательных периодов, последний из которых содержит now.
// Границы выравниваются в зоне now.Location(), неделя начинается с понедельника.
func BuildBuckets(g Granularity, count int, now time.Time) []Bucket {
	if count <= 0 || g.BucketCount() == 0 {
		return []Bucket{}
	}

	buckets := make([]Bucket, count)
	start := periodStart(g, now)
	for i := count - 1; i >= 0; i-- {
		buckets[i] = Bucket{
			Start: start,
			End:   shiftPeriod(g, start, 1),
			Label: bucketLabel(g, start),
		}
		start = shiftPeriod(g, start, -1)
	}
	return buckets
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func periodStart(g Granularity, t time.Time) time.Time {
	switch g {
	case GranularityWeekly:
		day := startOfDay(t)
		// Weekday: воскресенье = 0, сдвигаем так, чтобы понедельник был 0
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GranularityMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	case GranularityYearly:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	default:
		return startOfDay(t)
	}
}

// shiftPeriod сдвигает уже выровненное начало периода на n периодов.
func shiftPeriod(g Granularity, start time.Time, n int) time.Time {
	switch g {
	case GranularityWeekly:
		return start.AddDate(0, 0, 7*n)
	case GranularityMonthly:
		return start.AddDate(0, n, 0)
	case GranularityYearly:
		return start.AddDate(n, 0, 0)
	default:
		return start.AddDate(0, 0, n)
	}
}

func bucketLabel(g Granularity, start time.Time) string {
	switch g {
	case GranularityWeekly:
		_, week := start.ISOWeek()
		return fmt.Sprintf("Week %d", week)
	case GranularityMonthly:
		return start.Format("Jan")
	case GranularityYearly:
		return start.Format("2006")
	default:
		return start.Format("02.01")
	}
}
