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

type AcceptAgreementUseCase struct {
	repo      port.AgreementRepositoryPort
	publisher port.AgreementEventPublisherPort
	clock     port.ClockPort
}

func NewAcceptAgreementUseCase(repo port.AgreementRepositoryPort, publisher port.AgreementEventPublisherPort, clock port.ClockPort) *AcceptAgreementUseCase {
	return &AcceptAgreementUseCase{repo: repo, publisher: publisher, clock: clock}
}

// Execute принимает предложение. Статус, продажа объекта и список арендаторов
// пишутся репозиторием одной транзакцией.
func (uc *AcceptAgreementUseCase) Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID) (*domain.AgreementDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "AcceptAgreement",
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
		ucLogger.Warn("User is not allowed to accept this agreement", port.Fields{"error": err.Error()})
		return nil, err
	}

	now := uc.clock.Now()
	if err := agreement.Accept(now); err != nil {
		ucLogger.Warn("Agreement can not be accepted", port.Fields{"status": agreement.Status})
		return nil, err
	}

	if err := uc.repo.Accept(ctx, agreement); err != nil {
		if errors.Is(err, domain.ErrAgreementNotPending) {
			ucLogger.Warn("Agreement was changed concurrently", nil)
			return nil, err
		}
		ucLogger.Error("Repository failed to accept agreement", err, nil)
		return nil, fmt.Errorf("failed to accept agreement: %w", err)
	}

	event := domain.NewAgreementEvent(domain.NotificationAgreementAccepted, actor.UserID, agreement, now)
	publishAgreementEvent(ctx, uc.publisher, ucLogger, event)

	details, err := uc.repo.FindDetails(ctx, agreementID)
	if err != nil {
		ucLogger.Error("Repository failed to load accepted agreement", err, nil)
		return nil, fmt.Errorf("failed to load agreement details: %w", err)
	}
	if details == nil {
		return nil, domain.ErrAgreementNotFound
	}

	ucLogger.Info("Use case finished successfully", nil)
	return details, nil
}
