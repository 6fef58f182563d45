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

type CounterAgreementUseCase struct {
	agreements port.AgreementRepositoryPort
	publisher  port.AgreementEventPublisherPort
	numbers    port.UniqueNumberGeneratorPort
	clock      port.ClockPort
	rules      domain.AgreementRules
}

func NewCounterAgreementUseCase(
	agreements port.AgreementRepositoryPort,
	publisher port.AgreementEventPublisherPort,
	numbers port.UniqueNumberGeneratorPort,
	clock port.ClockPort,
	rules domain.AgreementRules,
) *CounterAgreementUseCase {
	return &CounterAgreementUseCase{
		agreements: agreements,
		publisher:  publisher,
		numbers:    numbers,
		clock:      clock,
		rules:      rules,
	}
}

// Execute создает встречное предложение от контрагента узла и архивирует исходный узел.
// Объект копируется с исходного узла.
func (uc *CounterAgreementUseCase) Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID, terms domain.AgreementTerms) (*domain.Agreement, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "CounterAgreement",
		"user_id":      actor.UserID.String(),
		"agreement_id": agreementID.String(),
	})

	ucLogger.Info("Use case started", nil)

	original, err := findAgreement(ctx, uc.agreements, agreementID)
	if err != nil {
		ucLogger.Warn("Agreement lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := original.CheckCounterpart(actor.UserID); err != nil {
		ucLogger.Warn("User is not allowed to counter this agreement", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := original.EnsurePending(); err != nil {
		ucLogger.Warn("Agreement can not be countered", port.Fields{"status": original.Status})
		return nil, err
	}

	now := uc.clock.Now()
	if err := uc.rules.Validate(terms, now); err != nil {
		ucLogger.Warn("Counter terms are invalid", port.Fields{"error": err.Error()})
		return nil, err
	}

	counter, err := original.Counter(actor.UserID, terms, uc.numbers.Next(), now)
	if err != nil {
		ucLogger.Warn("Agreement can not be countered", port.Fields{"status": original.Status})
		return nil, err
	}

	if err := uc.agreements.Counter(ctx, original, counter); err != nil {
		if errors.Is(err, domain.ErrAgreementNotPending) {
			ucLogger.Warn("Agreement was changed concurrently", nil)
			return nil, err
		}
		ucLogger.Error("Repository failed to save counter agreement", err, nil)
		return nil, fmt.Errorf("failed to counter agreement: %w", err)
	}

	ucLogger = ucLogger.WithFields(port.Fields{"counter_agreement_id": counter.ID.String()})

	event := domain.NewAgreementEvent(domain.NotificationAgreementCountered, actor.UserID, counter, now)
	publishAgreementEvent(ctx, uc.publisher, ucLogger, event)

	ucLogger.Info("Use case finished successfully", nil)
	return counter, nil
}
