package usecases_port

import (
	"context"
	"real-estate-system/internal/core/domain"
)

// CreateAgreementRequest - новое предложение от арендатора.
type CreateAgreementRequest struct {
	Parties domain.AgreementParties
	Terms   domain.AgreementTerms
}

type CreateAgreementUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor, req CreateAgreementRequest) (*domain.Agreement, error)
}
