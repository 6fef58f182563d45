package usecase

import (
	"context"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"
)

// MaxLatestAgreements - сколько последних принятых договоров показывается на главной
const MaxLatestAgreements = 5

type GetLatestAgreementsUseCase struct {
	repo port.AgreementRepositoryPort
}

func NewGetLatestAgreementsUseCase(repo port.AgreementRepositoryPort) *GetLatestAgreementsUseCase {
	return &GetLatestAgreementsUseCase{repo: repo}
}

func (uc *GetLatestAgreementsUseCase) Execute(ctx context.Context, actor domain.Actor) ([]domain.AgreementListItem, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetLatestAgreements", "user_id": actor.UserID.String()})

	ucLogger.Info("Use case started", nil)

	items, err := uc.repo.FindLatestAccepted(ctx, domain.PartyFieldForRole(actor.Role), actor.UserID, MaxLatestAgreements)
	if err != nil {
		ucLogger.Error("Repository failed to find latest agreements", err, nil)
		return nil, fmt.Errorf("failed to get latest agreements: %w", err)
	}
	if items == nil {
		items = []domain.AgreementListItem{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(items)})
	return items, nil
}
