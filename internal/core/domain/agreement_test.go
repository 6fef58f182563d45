package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type agreementFixture struct {
	tenant, landlord, property uuid.UUID
	now                        time.Time
}

func newFixture() agreementFixture {
	return agreementFixture{
		tenant:   uuid.New(),
		landlord: uuid.New(),
		property: uuid.New(),
		now:      time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
}

func (f agreementFixture) terms(amount int64) AgreementTerms {
	start := f.now.AddDate(0, 0, 3)
	end := start.AddDate(0, 6, 0)
	return AgreementTerms{
		Type:          TypeRent,
		Amount:        decimal.NewFromInt(amount),
		StartDate:     start,
		EndDate:       &end,
		PaymentPeriod: PeriodMonthly,
	}
}

func (f agreementFixture) proposal() *Agreement {
	parties := AgreementParties{TenantID: f.tenant, LandlordID: f.landlord, PropertyID: f.property}
	return NewAgreement(parties, f.terms(1000), f.tenant, 123456, f.now)
}

func TestNewAgreement(t *testing.T) {
	f := newFixture()

	a := f.proposal()

	assert.NotEqual(t, uuid.Nil, a.ID)
	assert.Equal(t, StatusPending, a.Status)
	assert.False(t, a.IsArchived)
	assert.Equal(t, f.tenant, a.CreatorID)
	assert.Equal(t, 123456, a.UniqueNumber)
	assert.Nil(t, a.ParentID)
	assert.Equal(t, f.now, a.CreatedAt)
	assert.Equal(t, f.now, a.UpdatedAt)
}

func TestNewAgreement_SaleDropsEndDate(t *testing.T) {
	f := newFixture()
	terms := f.terms(1000)
	terms.Type = TypeSale
	terms.PaymentPeriod = PeriodOnce

	a := NewAgreement(AgreementParties{TenantID: f.tenant, LandlordID: f.landlord, PropertyID: f.property}, terms, f.tenant, 1, f.now)

	assert.Nil(t, a.EndDate)
}

func TestAgreement_CheckCounterpart(t *testing.T) {
	f := newFixture()
	a := f.proposal()

	assert.NoError(t, a.CheckCounterpart(f.landlord))
	assert.ErrorIs(t, a.CheckCounterpart(f.tenant), ErrNotCounterpart)
	assert.ErrorIs(t, a.CheckCounterpart(uuid.New()), ErrNotAgreementParty)
	assert.ErrorIs(t, a.CheckCounterpart(uuid.New()), ErrForbidden)
}

func TestAgreement_CheckOwner(t *testing.T) {
	f := newFixture()
	a := f.proposal()

	assert.NoError(t, a.CheckOwner(f.tenant))
	assert.ErrorIs(t, a.CheckOwner(f.landlord), ErrNotOwner)
}

func TestAgreement_Accept(t *testing.T) {
	f := newFixture()
	a := f.proposal()
	later := f.now.Add(time.Hour)

	require.NoError(t, a.Accept(later))

	assert.Equal(t, StatusAccepted, a.Status)
	assert.False(t, a.IsArchived)
	assert.Equal(t, later, a.UpdatedAt)

	assert.ErrorIs(t, a.Accept(later), ErrAgreementNotPending)
	assert.ErrorIs(t, a.Decline(later), ErrAgreementNotPending)
}

func TestAgreement_Decline(t *testing.T) {
	f := newFixture()
	a := f.proposal()

	require.NoError(t, a.Decline(f.now))

	assert.Equal(t, StatusDeclined, a.Status)
	assert.True(t, a.IsArchived)
	assert.ErrorIs(t, a.Accept(f.now), ErrConflict)
}

func TestAgreement_CounterChain(t *testing.T) {
	f := newFixture()
	original := f.proposal()

	// арендодатель отвечает на предложение арендатора
	byLandlord, err := original.Counter(f.landlord, f.terms(900), 222222, f.now)
	require.NoError(t, err)

	assert.Equal(t, StatusCountered, original.Status)
	assert.True(t, original.IsArchived)

	assert.Equal(t, f.landlord, byLandlord.LandlordID)
	assert.Equal(t, f.tenant, byLandlord.TenantID)
	assert.Equal(t, f.landlord, byLandlord.CreatorID)
	assert.Equal(t, f.property, byLandlord.PropertyID)
	require.NotNil(t, byLandlord.ParentID)
	assert.Equal(t, original.ID, *byLandlord.ParentID)
	assert.Equal(t, StatusPending, byLandlord.Status)
	assert.False(t, byLandlord.IsArchived)
	assert.True(t, byLandlord.Amount.Equal(decimal.NewFromInt(900)))
	assert.Equal(t, 222222, byLandlord.UniqueNumber)

	// и арендатор отвечает на встречное
	byTenant, err := byLandlord.Counter(f.tenant, f.terms(950), 333333, f.now)
	require.NoError(t, err)

	assert.Equal(t, f.tenant, byTenant.TenantID)
	assert.Equal(t, f.landlord, byTenant.LandlordID)
	assert.Equal(t, f.tenant, byTenant.CreatorID)
	require.NotNil(t, byTenant.ParentID)
	assert.Equal(t, byLandlord.ID, *byTenant.ParentID)
	assert.Equal(t, StatusCountered, byLandlord.Status)
}

func TestAgreement_CounterTerminal(t *testing.T) {
	f := newFixture()
	a := f.proposal()
	require.NoError(t, a.Decline(f.now))

	counter, err := a.Counter(f.landlord, f.terms(900), 1, f.now)

	assert.Nil(t, counter)
	assert.ErrorIs(t, err, ErrAgreementNotPending)
}

func TestAgreement_UpdateTerms(t *testing.T) {
	f := newFixture()
	a := f.proposal()
	terms := f.terms(1500)
	later := f.now.Add(time.Minute)

	require.NoError(t, a.UpdateTerms(terms, later))

	assert.True(t, a.Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, StatusPending, a.Status)
	assert.Equal(t, later, a.UpdatedAt)
	assert.Equal(t, f.now, a.CreatedAt)

	require.NoError(t, a.Accept(later))
	assert.ErrorIs(t, a.UpdateTerms(terms, later), ErrAgreementNotPending)
}

func TestAgreement_OtherParty(t *testing.T) {
	f := newFixture()
	a := f.proposal()

	assert.Equal(t, f.landlord, a.OtherParty(f.tenant))
	assert.Equal(t, f.tenant, a.OtherParty(f.landlord))
}

func TestAgreement_IsRecurring(t *testing.T) {
	assert.True(t, (&Agreement{Type: TypeRent, PaymentPeriod: PeriodWeekly}).IsRecurring())
	assert.False(t, (&Agreement{Type: TypeRent, PaymentPeriod: PeriodOnce}).IsRecurring())
	assert.False(t, (&Agreement{Type: TypeSale, PaymentPeriod: PeriodMonthly}).IsRecurring())
}

func TestDefaultStatuses(t *testing.T) {
	assert.Equal(t, []AgreementStatus{StatusDeclined, StatusCountered}, DefaultStatuses(true))
	assert.Equal(t, []AgreementStatus{StatusPending, StatusAccepted}, DefaultStatuses(false))

	// возвращается копия
	s := DefaultStatuses(false)
	s[0] = StatusDeclined
	assert.Equal(t, StatusPending, DefaultStatuses(false)[0])
}
