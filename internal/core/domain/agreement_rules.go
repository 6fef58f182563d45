package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AgreementRules - границы условий договора. Значения приходят из конфигурации.
type AgreementRules struct {
	MinAmount       decimal.Decimal
	MaxAmount       decimal.Decimal
	MinStartDays    int // начало не раньше чем через столько дней
	MaxStartDays    int // и не позже чем через столько
	MinDurationDays int // минимальная длительность аренды
}

func DefaultAgreementRules() AgreementRules {
	return AgreementRules{
		MinAmount:       decimal.NewFromInt(10),
		MaxAmount:       decimal.NewFromInt(150_000_000),
		MinStartDays:    1,
		MaxStartDays:    30,
		MinDurationDays: 1,
	}
}

// wholeDays - количество полных суток между from и to, с отбрасыванием дробной части.
func wholeDays(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}

// Validate проверяет условия относительно момента now.
// Окно даты начала проверяется только при создании, встречном предложении и правке.
func (r AgreementRules) Validate(terms AgreementTerms, now time.Time) error {
	if !terms.Type.IsValid() {
		return validationError("agreement type must be one of: sale, rent")
	}
	if !terms.PaymentPeriod.IsValid() {
		return validationError("payment period must be one of: once, daily, weekly, monthly, yearly")
	}
	if terms.Amount.LessThan(r.MinAmount) || terms.Amount.GreaterThan(r.MaxAmount) {
		return validationError("amount must be between %s and %s", r.MinAmount.String(), r.MaxAmount.String())
	}
	if terms.StartDate.IsZero() {
		return validationError("start date required")
	}

	days := wholeDays(now, terms.StartDate)
	if days < r.MinStartDays {
		return validationError("start date should be at least %d day(s) in the future", r.MinStartDays)
	}
	if days > r.MaxStartDays {
		return validationError("start date should not be in more than %d days", r.MaxStartDays)
	}

	if terms.Type == TypeRent {
		if terms.EndDate == nil {
			return validationError("end date required")
		}
		if wholeDays(terms.StartDate, *terms.EndDate) < r.MinDurationDays {
			return validationError("end date should be at least %d day(s) after start date", r.MinDurationDays)
		}
	}
	return nil
}
