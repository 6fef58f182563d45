package usecase

import (
	"context"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"
	"real-estate-system/internal/core/port/usecases_port"
)

type CreateAgreementUseCase struct {
	agreements port.AgreementRepositoryPort
	properties port.PropertyRepositoryPort
	users      port.UserRepositoryPort
	publisher  port.AgreementEventPublisherPort
	numbers    port.UniqueNumberGeneratorPort
	clock      port.ClockPort
	rules      domain.AgreementRules
}

func NewCreateAgreementUseCase(
	agreements port.AgreementRepositoryPort,
	properties port.PropertyRepositoryPort,
	users port.UserRepositoryPort,
	publisher port.AgreementEventPublisherPort,
	numbers port.UniqueNumberGeneratorPort,
	clock port.ClockPort,
	rules domain.AgreementRules,
) *CreateAgreementUseCase {
	return &CreateAgreementUseCase{
		agreements: agreements,
		properties: properties,
		users:      users,
		publisher:  publisher,
		numbers:    numbers,
		clock:      clock,
		rules:      rules,
	}
}

func (uc *CreateAgreementUseCase) Execute(ctx context.Context, actor domain.Actor, req usecases_port.CreateAgreementRequest) (*domain.Agreement, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "CreateAgreement",
		"user_id":     actor.UserID.String(),
		"property_id": req.Parties.PropertyID.String(),
	})

	ucLogger.Info("Use case started", nil)

	if actor.Role != domain.RoleTenant {
		ucLogger.Warn("Only tenants can propose agreements", port.Fields{"role": actor.Role})
		return nil, domain.ErrTenantRoleRequired
	}
	if req.Parties.TenantID != actor.UserID {
		ucLogger.Warn("Tenant in request does not match acting user", nil)
		return nil, domain.ErrTenantMismatch
	}

	now := uc.clock.Now()
	if err := uc.rules.Validate(req.Terms, now); err != nil {
		ucLogger.Warn("Agreement terms are invalid", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := uc.checkParties(ctx, req.Parties); err != nil {
		ucLogger.Warn("Agreement parties check failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	agreement := domain.NewAgreement(req.Parties, req.Terms, actor.UserID, uc.numbers.Next(), now)
	if err := uc.agreements.Create(ctx, agreement); err != nil {
		ucLogger.Error("Repository failed to create agreement", err, nil)
		return nil, fmt.Errorf("failed to create agreement: %w", err)
	}

	ucLogger = ucLogger.WithFields(port.Fields{"agreement_id": agreement.ID.String()})

	event := domain.NewAgreementEvent(domain.NotificationNewAgreement, actor.UserID, agreement, now)
	publishAgreementEvent(ctx, uc.publisher, ucLogger, event)

	ucLogger.Info("Use case finished successfully", nil)
	return agreement, nil
}

// checkParties: участники и объект существуют, объект принадлежит арендодателю и свободен
func (uc *CreateAgreementUseCase) checkParties(ctx context.Context, parties domain.AgreementParties) error {
	tenant, err := uc.users.FindByID(ctx, parties.TenantID)
	if err != nil {
		return fmt.Errorf("failed to load tenant: %w", err)
	}
	if tenant == nil || tenant.Role != domain.RoleTenant {
		return domain.ErrTenantNotFound
	}

	landlord, err := uc.users.FindByID(ctx, parties.LandlordID)
	if err != nil {
		return fmt.Errorf("failed to load landlord: %w", err)
	}
	if landlord == nil || landlord.Role != domain.RoleLandlord {
		return domain.ErrLandlordNotFound
	}

	property, err := uc.properties.FindByID(ctx, parties.PropertyID)
	if err != nil {
		return fmt.Errorf("failed to load property: %w", err)
	}
	if property == nil {
		return domain.ErrPropertyNotFound
	}
	if property.OwnerID != parties.LandlordID {
		return domain.ErrPropertyNotOwnedByLandlord
	}
	if !property.IsAvailable() {
		return domain.ErrPropertyNotAvailable
	}

	if parties.ParentID != nil {
		parent, err := uc.agreements.FindByID(ctx, *parties.ParentID)
		if err != nil {
			return fmt.Errorf("failed to load parent agreement: %w", err)
		}
		if parent == nil {
			return domain.ErrParentAgreementNotFound
		}
	}
	return nil
}
