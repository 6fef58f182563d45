package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// PartyField - колонка, по которой пользователь ищет свои договоры.
type PartyField string

const (
	PartyLandlord PartyField = "landlord"
	PartyTenant   PartyField = "tenant"
)

// PartyFieldForRole: арендодатель видит договоры по landlord, все остальные по tenant.
func PartyFieldForRole(role Role) PartyField {
	switch role {
	case RoleLandlord:
		return PartyLandlord
	default:
		return PartyTenant
	}
}

// CreatorScope - фильтр по автору узла относительно текущего пользователя.
type CreatorScope string

const (
	CreatedByMe     CreatorScope = "me"
	CreatedByOthers CreatorScope = "others"
	CreatedByAll    CreatorScope = "all"
)

// AgreementFilters - уже провалидированный запрос фильтрации.
// Пустые срезы означают значение по умолчанию.
type AgreementFilters struct {
	Statuses       []AgreementStatus
	Types          []AgreementType
	PaymentPeriods []PaymentPeriod
	CreatedAfter   *time.Time
	CreatedBefore  *time.Time
}

// ListAgreementsParams - параметры списка, поиска и фильтрации.
type ListAgreementsParams struct {
	IsArchived bool
	CreatedBy  CreatorScope
	Filters    *AgreementFilters
	Search     string
	Limit      int
	Offset     int
}

// AgreementQuery - канонический предикат выборки договоров.
// Адаптер хранилища переводит его в свой язык запросов.
type AgreementQuery struct {
	PartyField PartyField
	UserID     uuid.UUID
	IsArchived bool

	CreatorID        *uuid.UUID
	ExcludeCreatorID *uuid.UUID

	Statuses       []AgreementStatus
	Types          []AgreementType
	PaymentPeriods []PaymentPeriod

	CreatedFrom *time.Time // включительно
	CreatedTo   *time.Time // не включительно

	UniqueNumberLike string
}

// ValidateFilters проверяет значения фильтров. Статусы ограничены набором,
// который соответствует архивному или активному списку.
func ValidateFilters(isArchived bool, f *AgreementFilters) error {
	if f == nil {
		return nil
	}
	allowed := DefaultStatuses(isArchived)
	for _, s := range f.Statuses {
		if !slices.Contains(allowed, s) {
			return validationError("status %q is not allowed for this list", s)
		}
	}
	for _, t := range f.Types {
		if !t.IsValid() {
			return validationError("unknown agreement type %q", t)
		}
	}
	for _, p := range f.PaymentPeriods {
		if !p.IsValid() {
			return validationError("unknown payment period %q", p)
		}
	}
	if f.CreatedAfter != nil && f.CreatedBefore != nil && f.CreatedBefore.Before(*f.CreatedAfter) {
		return validationError("createdBefore must not precede createdAfter")
	}
	return nil
}

// BuildAgreementQuery собирает предикат по роли пользователя и запросу.
// Функция тотальна: для провалидированного входа всегда возвращает предикат.
func BuildAgreementQuery(actor Actor, params ListAgreementsParams, loc *time.Location) AgreementQuery {
	if loc == nil {
		loc = time.UTC
	}

	q := AgreementQuery{
		PartyField:       PartyFieldForRole(actor.Role),
		UserID:           actor.UserID,
		IsArchived:       params.IsArchived,
		Statuses:         DefaultStatuses(params.IsArchived),
		Types:            AllAgreementTypes(),
		PaymentPeriods:   AllPaymentPeriods(),
		UniqueNumberLike: params.Search,
	}

	switch params.CreatedBy {
	case CreatedByMe:
		id := actor.UserID
		q.CreatorID = &id
	case CreatedByOthers:
		id := actor.UserID
		q.ExcludeCreatorID = &id
	}

	f := params.Filters
	if f == nil {
		return q
	}
	if len(f.Statuses) > 0 {
		q.Statuses = append([]AgreementStatus(nil), f.Statuses...)
	}
	if len(f.Types) > 0 {
		q.Types = append([]AgreementType(nil), f.Types...)
	}
	if len(f.PaymentPeriods) > 0 {
		q.PaymentPeriods = append([]PaymentPeriod(nil), f.PaymentPeriods...)
	}
	if f.CreatedAfter != nil {
		from := calendarDayIn(*f.CreatedAfter, loc)
		q.CreatedFrom = &from
	}
	if f.CreatedBefore != nil {
		to := calendarDayIn(*f.CreatedBefore, loc).AddDate(0, 0, 1)
		q.CreatedTo = &to
	}
	return q
}

// calendarDayIn - начало того же календарного дня, что и t, но в зоне loc.
func calendarDayIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
