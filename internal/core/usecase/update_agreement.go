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

type UpdateAgreementUseCase struct {
	repo  port.AgreementRepositoryPort
	clock port.ClockPort
	rules domain.AgreementRules
}

func NewUpdateAgreementUseCase(repo port.AgreementRepositoryPort, clock port.ClockPort, rules domain.AgreementRules) *UpdateAgreementUseCase {
	return &UpdateAgreementUseCase{repo: repo, clock: clock, rules: rules}
}

// Execute правит условия своего предложения, пока на него не ответили.
func (uc *UpdateAgreementUseCase) Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID, terms domain.AgreementTerms) (*domain.Agreement, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "UpdateAgreement",
		"user_id":      actor.UserID.String(),
		"agreement_id": agreementID.String(),
	})

	ucLogger.Info("Use case started", nil)

	agreement, err := findAgreement(ctx, uc.repo, agreementID)
	if err != nil {
		ucLogger.Warn("Agreement lookup failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := agreement.CheckOwner(actor.UserID); err != nil {
		ucLogger.Warn("Only the owner can update the agreement", nil)
		return nil, err
	}

	if err := agreement.EnsurePending(); err != nil {
		ucLogger.Warn("Agreement can not be updated", port.Fields{"status": agreement.Status})
		return nil, err
	}

	now := uc.clock.Now()
	if err := uc.rules.Validate(terms, now); err != nil {
		ucLogger.Warn("Agreement terms are invalid", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := agreement.UpdateTerms(terms, now); err != nil {
		ucLogger.Warn("Agreement can not be updated", port.Fields{"status": agreement.Status})
		return nil, err
	}

	if err := uc.repo.UpdateTerms(ctx, agreement); err != nil {
		if errors.Is(err, domain.ErrAgreementNotPending) {
			ucLogger.Warn("Agreement was changed concurrently", nil)
			return nil, err
		}
		ucLogger.Error("Repository failed to update agreement", err, nil)
		return nil, fmt.Errorf("failed to update agreement: %w", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return agreement, nil
}
