package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AgreementStatus string

const (
	StatusPending   AgreementStatus = "pending"
	StatusAccepted  AgreementStatus = "accepted"
	StatusDeclined  AgreementStatus = "declined"
	StatusCountered AgreementStatus = "countered"
)

type AgreementType string

const (
	TypeSale AgreementType = "sale"
	TypeRent AgreementType = "rent"
)

type PaymentPeriod string

const (
	PeriodOnce    PaymentPeriod = "once"
	PeriodDaily   PaymentPeriod = "daily"
	PeriodWeekly  PaymentPeriod = "weekly"
	PeriodMonthly PaymentPeriod = "monthly"
	PeriodYearly  PaymentPeriod = "yearly"
)

var (
	archivedStatuses    = []AgreementStatus{StatusDeclined, StatusCountered}
	nonArchivedStatuses = []AgreementStatus{StatusPending, StatusAccepted}
)

// DefaultStatuses - статусы, которые показываются для архива и для активного списка.
func DefaultStatuses(isArchived bool) []AgreementStatus {
	src := nonArchivedStatuses
	if isArchived {
		src = archivedStatuses
	}
	return append([]AgreementStatus(nil), src...)
}

func AllAgreementTypes() []AgreementType {
	return []AgreementType{TypeSale, TypeRent}
}

func AllPaymentPeriods() []PaymentPeriod {
	return []PaymentPeriod{PeriodOnce, PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly}
}

func (t AgreementType) IsValid() bool {
	return t == TypeSale || t == TypeRent
}

func (p PaymentPeriod) IsValid() bool {
	switch p {
	case PeriodOnce, PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Agreement - предложение между арендодателем и арендатором по одному объекту.
// Встречное предложение - новый узел с ParentID на предыдущий.
type Agreement struct {
	ID           uuid.UUID
	UniqueNumber int
	TenantID     uuid.UUID
	LandlordID   uuid.UUID
	CreatorID    uuid.UUID
	PropertyID   uuid.UUID
	ParentID     *uuid.UUID

	Type          AgreementType
	Amount        decimal.Decimal
	StartDate     time.Time
	EndDate       *time.Time
	PaymentPeriod PaymentPeriod

	Status     AgreementStatus
	IsArchived bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AgreementTerms - условия, которые задает автор узла.
type AgreementTerms struct {
	Type          AgreementType
	Amount        decimal.Decimal
	StartDate     time.Time
	EndDate       *time.Time
	PaymentPeriod PaymentPeriod
}

// AgreementParties - участники нового предложения.
type AgreementParties struct {
	TenantID   uuid.UUID
	LandlordID uuid.UUID
	PropertyID uuid.UUID
	ParentID   *uuid.UUID
}

// NewAgreement создает узел в статусе pending от имени creatorID.
func NewAgreement(parties AgreementParties, terms AgreementTerms, creatorID uuid.UUID, uniqueNumber int, now time.Time) *Agreement {
	a := &Agreement{
		ID:           uuid.New(),
		UniqueNumber: uniqueNumber,
		TenantID:     parties.TenantID,
		LandlordID:   parties.LandlordID,
		CreatorID:    creatorID,
		PropertyID:   parties.PropertyID,
		ParentID:     parties.ParentID,
		Status:       StatusPending,
		IsArchived:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	a.setTerms(terms)
	return a
}

func (a *Agreement) setTerms(terms AgreementTerms) {
	a.Type = terms.Type
	a.Amount = terms.Amount
	a.StartDate = terms.StartDate
	a.EndDate = terms.EndDate
	a.PaymentPeriod = terms.PaymentPeriod
	if a.Type != TypeRent {
		a.EndDate = nil
	}
}

func (a *Agreement) Terms() AgreementTerms {
	return AgreementTerms{
		Type:          a.Type,
		Amount:        a.Amount,
		StartDate:     a.StartDate,
		EndDate:       a.EndDate,
		PaymentPeriod: a.PaymentPeriod,
	}
}

func (a *Agreement) IsParty(userID uuid.UUID) bool {
	return a.TenantID == userID || a.LandlordID == userID
}

// OtherParty возвращает второго участника относительно userID.
func (a *Agreement) OtherParty(userID uuid.UUID) uuid.UUID {
	if a.TenantID == userID {
		return a.LandlordID
	}
	return a.TenantID
}

// CheckCounterpart: контрагент узла - участник, который этот узел не создавал.
func (a *Agreement) CheckCounterpart(userID uuid.UUID) error {
	if !a.IsParty(userID) {
		return ErrNotAgreementParty
	}
	if a.CreatorID == userID {
		return ErrNotCounterpart
	}
	return nil
}

func (a *Agreement) CheckOwner(userID uuid.UUID) error {
	if a.CreatorID != userID {
		return ErrNotOwner
	}
	return nil
}

// IsRecurring - арендные платежи с периодичностью. Продажа и "once" считаются разовыми.
func (a *Agreement) IsRecurring() bool {
	return a.Type == TypeRent && a.PaymentPeriod != PeriodOnce
}

// EnsurePending - ответить или править можно только узел в статусе pending.
func (a *Agreement) EnsurePending() error {
	if a.Status != StatusPending {
		return ErrAgreementNotPending
	}
	return nil
}

// Accept переводит узел в accepted. Узел остается в активном списке.
func (a *Agreement) Accept(now time.Time) error {
	if err := a.EnsurePending(); err != nil {
		return err
	}
	a.Status = StatusAccepted
	a.UpdatedAt = now
	return nil
}

// Decline - терминальный переход с архивацией.
func (a *Agreement) Decline(now time.Time) error {
	if err := a.EnsurePending(); err != nil {
		return err
	}
	a.Status = StatusDeclined
	a.IsArchived = true
	a.UpdatedAt = now
	return nil
}

// Counter архивирует текущий узел и возвращает новый, созданный actorID.
// Роль автора на новом узле совпадает с его ролью на исходном.
func (a *Agreement) Counter(actorID uuid.UUID, terms AgreementTerms, uniqueNumber int, now time.Time) (*Agreement, error) {
	if err := a.EnsurePending(); err != nil {
		return nil, err
	}

	parties := AgreementParties{PropertyID: a.PropertyID}
	if actorID == a.TenantID {
		parties.TenantID = actorID
		parties.LandlordID = a.LandlordID
	} else {
		parties.LandlordID = actorID
		parties.TenantID = a.TenantID
	}
	parentID := a.ID
	parties.ParentID = &parentID

	counter := NewAgreement(parties, terms, actorID, uniqueNumber, now)

	a.Status = StatusCountered
	a.IsArchived = true
	a.UpdatedAt = now

	return counter, nil
}

// UpdateTerms меняет условия на месте. Статус не трогается.
func (a *Agreement) UpdateTerms(terms AgreementTerms, now time.Time) error {
	if err := a.EnsurePending(); err != nil {
		return err
	}
	a.setTerms(terms)
	a.UpdatedAt = now
	return nil
}

// PropertySummary - краткая карточка объекта в ответах.
type PropertySummary struct {
	ID      uuid.UUID
	Title   string
	Address string
	Status  PropertyStatus
}

// AgreementListItem - строка списка: договор и его объект.
type AgreementListItem struct {
	Agreement
	Property *PropertySummary
}

// AgreementDetails - развернутый договор для просмотра по id.
type AgreementDetails struct {
	Agreement
	Tenant   *UserProfile
	Landlord *UserProfile
	Property *PropertySummary
	Parent   *Agreement
}

// PaginatedAgreements - страница списка.
type PaginatedAgreements struct {
	Items  []AgreementListItem
	Total  int
	Limit  int
	Offset int
}
