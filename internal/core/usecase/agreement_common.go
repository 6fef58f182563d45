package usecase

import (
	"context"
	"fmt"

	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
)

// findAgreement загружает узел или возвращает domain.ErrAgreementNotFound
func findAgreement(ctx context.Context, repo port.AgreementRepositoryPort, id uuid.UUID) (*domain.Agreement, error) {
	agreement, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load agreement: %w", err)
	}
	if agreement == nil {
		return nil, domain.ErrAgreementNotFound
	}
	return agreement, nil
}

// publishAgreementEvent отправляет событие второму участнику. Ошибка брокера
// не отменяет уже выполненный переход и только логируется.
func publishAgreementEvent(ctx context.Context, publisher port.AgreementEventPublisherPort, logger port.LoggerPort, event domain.AgreementEvent) {
	if publisher == nil {
		return
	}
	fields := port.Fields{
		"event_id":     event.ID.String(),
		"event_type":   event.Type,
		"receiver_id":  event.ReceiverID.String(),
		"agreement_id": event.AgreementID.String(),
	}
	if err := publisher.PublishAgreementEvent(ctx, event); err != nil {
		logger.Warn("Failed to publish agreement event", port.Fields{
			"error":      err.Error(),
			"event_id":   fields["event_id"],
			"event_type": fields["event_type"],
		})
		return
	}
	logger.Debug("Agreement event published", fields)
}
