package rest

import (
	"context"

	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port/usecases_port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockValidateToken struct{ mock.Mock }

func (m *mockValidateToken) Execute(ctx context.Context, token string) (*domain.Claims, error) {
	args := m.Called(ctx, token)
	claims, _ := args.Get(0).(*domain.Claims)
	return claims, args.Error(1)
}

type mockCreateAgreement struct{ mock.Mock }

func (m *mockCreateAgreement) Execute(ctx context.Context, actor domain.Actor, req usecases_port.CreateAgreementRequest) (*domain.Agreement, error) {
	args := m.Called(ctx, actor, req)
	a, _ := args.Get(0).(*domain.Agreement)
	return a, args.Error(1)
}

type mockAcceptAgreement struct{ mock.Mock }

func (m *mockAcceptAgreement) Execute(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.AgreementDetails, error) {
	args := m.Called(ctx, actor, id)
	d, _ := args.Get(0).(*domain.AgreementDetails)
	return d, args.Error(1)
}

type mockCounterAgreement struct{ mock.Mock }

func (m *mockCounterAgreement) Execute(ctx context.Context, actor domain.Actor, id uuid.UUID, terms domain.AgreementTerms) (*domain.Agreement, error) {
	args := m.Called(ctx, actor, id, terms)
	a, _ := args.Get(0).(*domain.Agreement)
	return a, args.Error(1)
}

type mockDeleteAgreement struct{ mock.Mock }

func (m *mockDeleteAgreement) Execute(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	return m.Called(ctx, actor, id).Error(0)
}

type mockListAgreements struct{ mock.Mock }

func (m *mockListAgreements) Execute(ctx context.Context, actor domain.Actor, params domain.ListAgreementsParams) (*domain.PaginatedAgreements, error) {
	args := m.Called(ctx, actor, params)
	p, _ := args.Get(0).(*domain.PaginatedAgreements)
	return p, args.Error(1)
}

type mockTotals struct{ mock.Mock }

func (m *mockTotals) Execute(ctx context.Context, actor domain.Actor, g domain.Granularity) ([]domain.TotalsPoint, error) {
	args := m.Called(ctx, actor, g)
	points, _ := args.Get(0).([]domain.TotalsPoint)
	return points, args.Error(1)
}

type mockRegister struct{ mock.Mock }

func (m *mockRegister) Execute(ctx context.Context, req usecases_port.RegisterUserRequest) (*domain.User, string, error) {
	args := m.Called(ctx, req)
	u, _ := args.Get(0).(*domain.User)
	return u, args.String(1), args.Error(2)
}

type mockLogin struct{ mock.Mock }

func (m *mockLogin) Execute(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	u, _ := args.Get(0).(*domain.User)
	return u, args.String(1), args.Error(2)
}

type mockMarkRead struct{ mock.Mock }

func (m *mockMarkRead) Execute(ctx context.Context, actor domain.Actor, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, actor, ids)
	return args.Get(0).(int64), args.Error(1)
}

type mockGetNotifications struct{ mock.Mock }

func (m *mockGetNotifications) Execute(ctx context.Context, actor domain.Actor, limit, offset int) (*domain.PaginatedNotifications, error) {
	args := m.Called(ctx, actor, limit, offset)
	p, _ := args.Get(0).(*domain.PaginatedNotifications)
	return p, args.Error(1)
}
