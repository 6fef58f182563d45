package usecase

import (
	"context"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
)

type GetAgreementByIdUseCase struct {
	repo port.AgreementRepositoryPort
}

func NewGetAgreementByIdUseCase(repo port.AgreementRepositoryPort) *GetAgreementByIdUseCase {
	return &GetAgreementByIdUseCase{repo: repo}
}

func (uc *GetAgreementByIdUseCase) Execute(ctx context.Context, actor domain.Actor, agreementID uuid.UUID) (*domain.AgreementDetails, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetAgreementById", "agreement_id": agreementID.String()})

	ucLogger.Info("Use case started", nil)

	details, err := uc.repo.FindDetails(ctx, agreementID)
	if err != nil {
		ucLogger.Error("Repository failed to find agreement", err, nil)
		return nil, fmt.Errorf("failed to get agreement: %w", err)
	}
	if details == nil {
		return nil, domain.ErrAgreementNotFound
	}
	if !details.IsParty(actor.UserID) {
		ucLogger.Warn("User is not a party of the agreement", port.Fields{"user_id": actor.UserID.String()})
		return nil, domain.ErrNotAgreementParty
	}

	ucLogger.Info("Use case finished successfully", nil)
	return details, nil
}
