package usecases_port

import (
	"context"
	"real-estate-system/internal/core/domain"

	"github.com/google/uuid"
)

type AcceptAgreementUseCasePort interface {
	// Возвращает развернутый договор после принятия
	Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID) (*domain.AgreementDetails, error)
}

type DeclineAgreementUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID) (*domain.Agreement, error)
}

type CounterAgreementUseCasePort interface {
	// Возвращает новый узел цепочки
	Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID, terms domain.AgreementTerms) (*domain.Agreement, error)
}
