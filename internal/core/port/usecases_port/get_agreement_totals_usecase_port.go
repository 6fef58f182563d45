package usecases_port

import (
	"context"
	"real-estate-system/internal/core/domain"
)

type GetAgreementTotalsUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor, granularity domain.Granularity) ([]domain.TotalsPoint, error)
}
