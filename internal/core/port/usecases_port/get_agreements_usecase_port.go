package usecases_port

import (
	"context"
	"real-estate-system/internal/core/domain"

	"github.com/google/uuid"
)

type ListAgreementsUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor, params domain.ListAgreementsParams) (*domain.PaginatedAgreements, error)
}

type GetAgreementByIdUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID) (*domain.AgreementDetails, error)
}

type GetLatestAgreementsUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor) ([]domain.AgreementListItem, error)
}
