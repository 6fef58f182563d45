package usecase

import (
	"context"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
)

type DeleteAgreementUseCase struct {
	repo port.AgreementRepositoryPort
}

func NewDeleteAgreementUseCase(repo port.AgreementRepositoryPort) *DeleteAgreementUseCase {
	return &DeleteAgreementUseCase{repo: repo}
}

// Execute удаляет узел. У потомков parent обнуляется в той же транзакции.
func (uc *DeleteAgreementUseCase) Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "DeleteAgreement",
		"user_id":      actor.UserID.String(),
		"agreement_id": agreementID.String(),
	})

	ucLogger.Info("Use case started", nil)

	agreement, err := findAgreement(ctx, uc.repo, agreementID)
	if err != nil {
		ucLogger.Warn("Agreement lookup failed", port.Fields{"error": err.Error()})
		return err
	}

	if err := agreement.CheckOwner(actor.UserID); err != nil {
		ucLogger.Warn("Only the owner can delete the agreement", nil)
		return err
	}

	if err := uc.repo.Delete(ctx, agreementID); err != nil {
		ucLogger.Error("Repository failed to delete agreement", err, nil)
		return fmt.Errorf("failed to delete agreement: %w", err)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
