package usecases_port

import (
	"context"
	"real-estate-system/internal/core/domain"

	"github.com/google/uuid"
)

type UpdateAgreementUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID, terms domain.AgreementTerms) (*domain.Agreement, error)
}

type DeleteAgreementUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID) error
}
