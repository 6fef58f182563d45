package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TotalsPoint - значение отчета за один период.
type TotalsPoint struct {
	Label string
	Value decimal.Decimal
}

// Accrue раскладывает суммы принятых договоров по периодам.
//
// Разовый договор (продажа или период "once") целиком попадает в период, где лежит StartDate.
// Аренда начисляется за каждый платежный цикл StartDate + k*период, который не позже EndDate
// и попадает внутрь окна отчета. Аренда без EndDate ограничивается концом окна.
func Accrue(buckets []Bucket, agreements []Agreement) []TotalsPoint {
	points := make([]TotalsPoint, len(buckets))
	for i, b := range buckets {
		points[i] = TotalsPoint{Label: b.Label, Value: decimal.Zero}
	}
	if len(buckets) == 0 {
		return points
	}

	windowStart := buckets[0].Start
	windowEnd := buckets[len(buckets)-1].End
	loc := windowStart.Location()

	for i := range agreements {
		a := inLocation(agreements[i], loc)
		if a.Status != StatusAccepted {
			continue
		}

		if !a.IsRecurring() {
			if idx := bucketIndex(buckets, a.StartDate); idx >= 0 {
				points[idx].Value = points[idx].Value.Add(a.Amount)
			}
			continue
		}

		for _, cycle := range a.CycleStarts(windowStart, windowEnd) {
			if idx := bucketIndex(buckets, cycle); idx >= 0 {
				points[idx].Value = points[idx].Value.Add(a.Amount)
			}
		}
	}
	return points
}

// inLocation переводит даты договора в зону периодов: календарные циклы
// считаются в той же зоне, что и границы периодов.
func inLocation(a Agreement, loc *time.Location) *Agreement {
	a.StartDate = a.StartDate.In(loc)
	if a.EndDate != nil {
		end := a.EndDate.In(loc)
		a.EndDate = &end
	}
	return &a
}

// CycleStarts возвращает моменты начала платежных циклов в [from, to).
func (a *Agreement) CycleStarts(from, to time.Time) []time.Time {
	if !a.IsRecurring() || !a.StartDate.Before(to) {
		return nil
	}
	if a.EndDate != nil && a.EndDate.Before(from) {
		return nil
	}

	var cycles []time.Time
	k := a.estimateCyclesUntil(from)
	for {
		t := a.cycleAt(k)
		if !t.Before(to) {
			break
		}
		if a.EndDate != nil && t.After(*a.EndDate) {
			break
		}
		if !t.Before(from) {
			cycles = append(cycles, t)
		}
		k++
	}
	return cycles
}

// cycleAt - начало k-го цикла. Месяц и год считаются от StartDate,
// а день месяца прижимается к последнему дню короткого месяца.
func (a *Agreement) cycleAt(k int) time.Time {
	switch a.PaymentPeriod {
	case PeriodDaily:
		return a.StartDate.AddDate(0, 0, k)
	case PeriodWeekly:
		return a.StartDate.AddDate(0, 0, 7*k)
	case PeriodMonthly:
		return addMonthsClamped(a.StartDate, k)
	case PeriodYearly:
		return addMonthsClamped(a.StartDate, 12*k)
	}
	return a.StartDate
}

// estimateCyclesUntil - нижняя оценка номера первого цикла, начинающегося не раньше t.
func (a *Agreement) estimateCyclesUntil(t time.Time) int {
	if !t.After(a.StartDate) {
		return 0
	}
	var k int
	switch a.PaymentPeriod {
	case PeriodDaily:
		k = int(t.Sub(a.StartDate)/(24*time.Hour)) - 1
	case PeriodWeekly:
		k = int(t.Sub(a.StartDate)/(7*24*time.Hour)) - 1
	case PeriodMonthly:
		k = monthsBetween(a.StartDate, t) - 1
	case PeriodYearly:
		k = t.Year() - a.StartDate.Year() - 1
	}
	if k < 0 {
		return 0
	}
	return k
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	day := t.Day()
	if last := daysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

func bucketIndex(buckets []Bucket, t time.Time) int {
	for i, b := range buckets {
		if b.Contains(t) {
			return i
		}
	}
	return -1
}
