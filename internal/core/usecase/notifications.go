package usecase

import (
	"context"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
)

type GetNotificationsUseCase struct {
	repo port.NotificationRepositoryPort
}

func NewGetNotificationsUseCase(repo port.NotificationRepositoryPort) *GetNotificationsUseCase {
	return &GetNotificationsUseCase{repo: repo}
}

func (uc *GetNotificationsUseCase) Execute(ctx context.Context, actor domain.Actor, limit, offset int) (*domain.PaginatedNotifications, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetNotifications", "user_id": actor.UserID.String()})

	ucLogger.Info("Use case started", nil)

	limit, offset = normalizePage(limit, offset)

	items, total, err := uc.repo.FindByReceiver(ctx, actor.UserID, limit, offset)
	if err != nil {
		ucLogger.Error("Repository failed to find notifications", err, nil)
		return nil, fmt.Errorf("failed to get notifications: %w", err)
	}
	if items == nil {
		items = []domain.Notification{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(items), "total": total})
	return &domain.PaginatedNotifications{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

type GetLatestNotificationsUseCase struct {
	repo port.NotificationRepositoryPort
}

func NewGetLatestNotificationsUseCase(repo port.NotificationRepositoryPort) *GetLatestNotificationsUseCase {
	return &GetLatestNotificationsUseCase{repo: repo}
}

func (uc *GetLatestNotificationsUseCase) Execute(ctx context.Context, actor domain.Actor) ([]domain.Notification, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "GetLatestNotifications", "user_id": actor.UserID.String()})

	ucLogger.Info("Use case started", nil)

	items, err := uc.repo.FindLatest(ctx, actor.UserID, domain.MaxLatestNotifications)
	if err != nil {
		ucLogger.Error("Repository failed to find latest notifications", err, nil)
		return nil, fmt.Errorf("failed to get latest notifications: %w", err)
	}
	if items == nil {
		items = []domain.Notification{}
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"count": len(items)})
	return items, nil
}

type MarkNotificationsReadUseCase struct {
	repo port.NotificationRepositoryPort
}

func NewMarkNotificationsReadUseCase(repo port.NotificationRepositoryPort) *MarkNotificationsReadUseCase {
	return &MarkNotificationsReadUseCase{repo: repo}
}

// Execute помечает прочитанными только уведомления самого пользователя. Чужие id молча игнорируются.
func (uc *MarkNotificationsReadUseCase) Execute(ctx context.Context, actor domain.Actor, ids []uuid.UUID) (int64, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{"use_case": "MarkNotificationsRead", "user_id": actor.UserID.String()})

	ucLogger.Info("Use case started", port.Fields{"requested": len(ids)})

	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: ids must not be empty", domain.ErrValidation)
	}

	updated, err := uc.repo.MarkRead(ctx, actor.UserID, ids)
	if err != nil {
		ucLogger.Error("Repository failed to mark notifications as read", err, nil)
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	ucLogger.Info("Use case finished successfully", port.Fields{"updated": updated})
	return updated, nil
}
