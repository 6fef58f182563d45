package usecase

import (
	"context"
	"errors"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
)

type DeclineAgreementUseCase struct {
	repo      port.AgreementRepositoryPort
	publisher port.AgreementEventPublisherPort
	clock     port.ClockPort
}

func NewDeclineAgreementUseCase(repo port.AgreementRepositoryPort, publisher port.AgreementEventPublisherPort, clock port.ClockPort) *DeclineAgreementUseCase {
	return &DeclineAgreementUseCase{repo: repo, publisher: publisher, clock: clock}
}

func (uc *DeclineAgreementUseCase) Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID) (*domain.Agreement, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "DeclineAgreement",
		"user_id":      actor.UserID.String(),
		"agreement_id": agreementID.String(),
	})

	ucLogger.Info("Use case started", nil)

	agreement, err := findAgreement(ctx, uc.repo, agreementID)
	if err != nil {
		ucLogger.Warn("Agreement lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := agreement.CheckCounterpart(actor.UserID); err != nil {
		ucLogger.Warn("User is not allowed to decline this agreement", port.Fields{"error": err.Error()})
		return nil, err
	}

	now := uc.clock.Now()
	if err := agreement.Decline(now); err != nil {
		ucLogger.Warn("Agreement can not be declined", port.Fields{"status": agreement.Status})
		return nil, err
	}

	if err := uc.repo.Decline(ctx, agreement); err != nil {
		if errors.Is(err, domain.ErrAgreementNotPending) {
			ucLogger.Warn("Agreement was changed concurrently", nil)
			return nil, err
		}
		ucLogger.Error("Repository failed to decline agreement", err, nil)
		return nil, fmt.Errorf("failed to decline agreement: %w", err)
	}

	event := domain.NewAgreementEvent(domain.NotificationAgreementDeclined, actor.UserID, agreement, now)
	publishAgreementEvent(ctx, uc.publisher, ucLogger, event)

	ucLogger.Info("Use case finished successfully", nil)
	return agreement, nil
}
