package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"
)

// Размер страницы по умолчанию и верхняя граница
const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// ListAgreementsUseCase обслуживает список, поиск и фильтр: все три сводятся к одному предикату.
type ListAgreementsUseCase struct {
	repo port.AgreementRepositoryPort
	loc  *time.Location
}

func NewListAgreementsUseCase(repo port.AgreementRepositoryPort, loc *time.Location) *ListAgreementsUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ListAgreementsUseCase{repo: repo, loc: loc}
}

func (uc *ListAgreementsUseCase) Execute(ctx context.Context, actor domain.Actor, params domain.ListAgreementsParams) (*domain.PaginatedAgreements, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":    "ListAgreements",
		"user_id":     actor.UserID.String(),
		"is_archived": params.IsArchived,
		"created_by":  params.CreatedBy,
	})

	ucLogger.Info("Use case started", nil)

	if err := domain.ValidateFilters(params.IsArchived, params.Filters); err != nil {
		ucLogger.Warn("Invalid filters", port.Fields{"error": err.Error()})
		return nil, err
	}

	params.Search = strings.TrimSpace(params.Search)
	params.Limit, params.Offset = normalizePage(params.Limit, params.Offset)

	query := domain.BuildAgreementQuery(actor, params, uc.loc)

	items, total, err := uc.repo.Find(ctx, query, params.Limit, params.Offset)
	if err != nil {
		ucLogger.Error("Repository failed to find agreements", err, nil)
		return nil, fmt.Errorf("failed to list agreements: %w", err)
	}
	if items == nil {
		items = []domain.AgreementListItem{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(items), "total": total})
	return &domain.PaginatedAgreements{
		Items:  items,
		Total:  total,
		Limit:  params.Limit,
		Offset: params.Offset,
	}, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
