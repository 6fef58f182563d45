package usecase

import (
	"context"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"
)

type GetAgreementTotalsUseCase struct {
	repo  port.AgreementRepositoryPort
	clock port.ClockPort
}

func NewGetAgreementTotalsUseCase(repo port.AgreementRepositoryPort, clock port.ClockPort) *GetAgreementTotalsUseCase {
	return &GetAgreementTotalsUseCase{repo: repo, clock: clock}
}

// Execute считает суммы принятых договоров пользователя по последним периодам.
// Границы периодов выравниваются в зоне часов сервиса.
func (uc *GetAgreementTotalsUseCase) Execute(ctx context.Context, actor domain.Actor, granularity domain.Granularity) ([]domain.TotalsPoint, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "GetAgreementTotals",
		"user_id":     actor.UserID.String(),
		"granularity": granularity,
	})

	ucLogger.Info("Use case started", nil)

	count := granularity.BucketCount()
	if count == 0 {
		return nil, domain.ErrInvalidInterval
	}

	buckets := domain.BuildBuckets(granularity, count, uc.clock.Now())
	windowStart, windowEnd := buckets[0].Start, buckets[len(buckets)-1].End

	agreements, err := uc.repo.FindAcceptedOverlapping(ctx, domain.PartyFieldForRole(actor.Role), actor.UserID, windowStart, windowEnd)
	if err != nil {
		ucLogger.Error("Repository failed to load accepted agreements", err, nil)
		return nil, fmt.Errorf("failed to load agreements for totals: %w", err)
	}

	points := domain.Accrue(buckets, agreements)

	ucLogger.Info("Use case finished successfully", port.Fields{"agreements": len(agreements)})
	return points, nil
}
