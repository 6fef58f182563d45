package usecases_port

import (
	"context"
	"real-estate-system/internal/core/domain"

	"github.com/google/uuid"
)

// ProcessNotificationUseCasePort вызывается консьюмером брокера.
type ProcessNotificationUseCasePort interface {
	Execute(ctx context.Context, event domain.AgreementEvent) error
}

type GetNotificationsUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor, limit, offset int) (*domain.PaginatedNotifications, error)
}

type GetLatestNotificationsUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor) ([]domain.Notification, error)
}

type MarkNotificationsReadUseCasePort interface {
	Execute(ctx context.Context, actor domain.Actor, ids []uuid.UUID) (int64, error)
}
