package port

import (
	"context"
	"real-estate-system/internal/core/domain"

	"github.com/google/uuid"
)

type NotificationRepositoryPort interface {
	// Create идемпотентен по ID уведомления. Возвращает false, если запись уже была.
	Create(ctx context.Context, notification *domain.Notification) (bool, error)
	FindByReceiver(ctx context.Context, receiverID uuid.UUID, limit, offset int) ([]domain.Notification, int, error)
	FindLatest(ctx context.Context, receiverID uuid.UUID, limit int) ([]domain.Notification, error)
	// MarkRead помечает прочитанными только уведомления этого получателя.
	MarkRead(ctx context.Context, receiverID uuid.UUID, ids []uuid.UUID) (int64, error)
}
