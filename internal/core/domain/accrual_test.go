package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func acceptedAgreement(typ AgreementType, period PaymentPeriod, amount int64, start time.Time, end *time.Time) Agreement {
	return Agreement{
		Type:          typ,
		PaymentPeriod: period,
		Amount:        decimal.NewFromInt(amount),
		StartDate:     start,
		EndDate:       end,
		Status:        StatusAccepted,
	}
}

func values(points []TotalsPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Value.String()
	}
	return out
}

func TestAccrue_SaleGoesToBucketOfStartDate(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	buckets := BuildBuckets(GranularityDaily, 5, now)
	sale := acceptedAgreement(TypeSale, PeriodOnce, 1000, time.Date(2024, time.March, 8, 10, 0, 0, 0, time.UTC), nil)

	points := Accrue(buckets, []Agreement{sale})

	assert.Equal(t, []string{"0", "0", "1000", "0", "0"}, values(points))
	assert.Equal(t, "08.03", points[2].Label)
}

func TestAccrue_MonthlyRentProration(t *testing.T) {
	now := time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)
	buckets := BuildBuckets(GranularityMonthly, 5, now)
	rent := acceptedAgreement(TypeRent, PeriodMonthly, 100, date(2024, time.January, 15), datePtr(2024, time.March, 15))

	points := Accrue(buckets, []Agreement{rent})

	require.Len(t, points, 5)
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May"}, []string{points[0].Label, points[1].Label, points[2].Label, points[3].Label, points[4].Label})
	assert.Equal(t, []string{"100", "100", "100", "0", "0"}, values(points))
}

func TestAccrue_OpenEndedRentCappedByWindow(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	buckets := BuildBuckets(GranularityDaily, 7, now)
	rent := acceptedAgreement(TypeRent, PeriodDaily, 50, date(2024, time.March, 6), nil)

	points := Accrue(buckets, []Agreement{rent})

	assert.Equal(t, []string{"0", "0", "50", "50", "50", "50", "50"}, values(points))
}

func TestAccrue_RentEndedBeforeWindow(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	buckets := BuildBuckets(GranularityMonthly, 6, now)
	rent := acceptedAgreement(TypeRent, PeriodMonthly, 100, date(2023, time.January, 1), datePtr(2023, time.June, 1))

	points := Accrue(buckets, []Agreement{rent})

	assert.Equal(t, []string{"0", "0", "0", "0", "0", "0"}, values(points))
}

func TestAccrue_RentStartedBeforeWindow(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	buckets := BuildBuckets(GranularityWeekly, 5, now)
	// 5 февраля - понедельник, как и начало первой недели окна
	rent := acceptedAgreement(TypeRent, PeriodWeekly, 70, date(2024, time.January, 8), datePtr(2024, time.February, 26))

	points := Accrue(buckets, []Agreement{rent})

	assert.Equal(t, []string{"70", "70", "70", "70", "0"}, values(points))
}

func TestAccrue_RentOncePaidAsOneShot(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	buckets := BuildBuckets(GranularityMonthly, 3, now)
	rent := acceptedAgreement(TypeRent, PeriodOnce, 300, date(2024, time.January, 20), datePtr(2024, time.March, 20))

	points := Accrue(buckets, []Agreement{rent})

	assert.Equal(t, []string{"300", "0", "0"}, values(points))
}

func TestAccrue_SkipsNonAccepted(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	buckets := BuildBuckets(GranularityDaily, 7, now)
	pending := acceptedAgreement(TypeSale, PeriodOnce, 1000, date(2024, time.March, 9), nil)
	pending.Status = StatusPending

	points := Accrue(buckets, []Agreement{pending})

	for _, p := range points {
		assert.True(t, p.Value.IsZero())
	}
}

func TestAccrue_SumsSeveralAgreements(t *testing.T) {
	now := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	buckets := BuildBuckets(GranularityYearly, 2, now)
	agreements := []Agreement{
		acceptedAgreement(TypeSale, PeriodOnce, 1000, date(2024, time.February, 1), nil),
		acceptedAgreement(TypeSale, PeriodOnce, 500, date(2023, time.July, 1), nil),
		acceptedAgreement(TypeRent, PeriodYearly, 40, date(2023, time.March, 1), datePtr(2025, time.March, 1)),
	}

	points := Accrue(buckets, agreements)

	assert.Equal(t, []string{"540", "1040"}, values(points))
}

func TestAccrue_DatesFromAnotherZone(t *testing.T) {
	minsk, err := time.LoadLocation("Europe/Minsk")
	require.NoError(t, err)

	now := time.Date(2024, time.May, 20, 12, 0, 0, 0, minsk)
	buckets := BuildBuckets(GranularityMonthly, 5, now)

	// Полночь по Минску, как ее возвращает драйвер в UTC.
	start := time.Date(2024, time.January, 31, 0, 0, 0, 0, minsk).UTC()
	end := time.Date(2024, time.April, 30, 0, 0, 0, 0, minsk).UTC()
	rent := acceptedAgreement(TypeRent, PeriodMonthly, 100, start, &end)

	points := Accrue(buckets, []Agreement{rent})

	assert.Equal(t, []string{"100", "100", "100", "100", "0"}, values(points))
	assert.Equal(t, time.UTC, rent.StartDate.Location())
}

func TestAccrue_YearlyRentFromAnotherZone(t *testing.T) {
	minsk, err := time.LoadLocation("Europe/Minsk")
	require.NoError(t, err)

	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, minsk)
	buckets := BuildBuckets(GranularityYearly, 3, now)

	start := time.Date(2023, time.January, 1, 0, 0, 0, 0, minsk).UTC()
	rent := acceptedAgreement(TypeRent, PeriodYearly, 500, start, nil)

	points := Accrue(buckets, []Agreement{rent})

	assert.Equal(t, []string{"500", "500", "500"}, values(points))
}

func TestAccrue_NoBuckets(t *testing.T) {
	points := Accrue(nil, []Agreement{acceptedAgreement(TypeSale, PeriodOnce, 1, date(2024, 1, 1), nil)})
	assert.Empty(t, points)
}

func TestCycleStarts_MonthEndClamped(t *testing.T) {
	rent := acceptedAgreement(TypeRent, PeriodMonthly, 1, date(2024, time.January, 31), datePtr(2024, time.April, 30))

	cycles := rent.CycleStarts(date(2024, time.January, 1), date(2024, time.June, 1))

	assert.Equal(t, []time.Time{
		date(2024, time.January, 31),
		date(2024, time.February, 29),
		date(2024, time.March, 31),
		date(2024, time.April, 30),
	}, cycles)
}

func TestCycleStarts_SkipsCyclesBeforeWindow(t *testing.T) {
	rent := acceptedAgreement(TypeRent, PeriodDaily, 1, date(2024, time.January, 1), nil)

	cycles := rent.CycleStarts(date(2024, time.March, 1), date(2024, time.March, 4))

	assert.Equal(t, []time.Time{date(2024, time.March, 1), date(2024, time.March, 2), date(2024, time.March, 3)}, cycles)
}

func TestAddMonthsClamped(t *testing.T) {
	assert.Equal(t, date(2023, time.February, 28), addMonthsClamped(date(2023, time.January, 31), 1))
	assert.Equal(t, date(2024, time.February, 29), addMonthsClamped(date(2024, time.January, 31), 1))
	assert.Equal(t, date(2025, time.February, 28), addMonthsClamped(date(2024, time.February, 29), 12))
	assert.Equal(t, date(2024, time.December, 15), addMonthsClamped(date(2024, time.March, 15), 9))
}
