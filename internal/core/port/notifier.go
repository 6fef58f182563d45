package port

import (
	"context"
	"real-estate-system/internal/core/domain"
)

// AgreementEventPublisherPort - отправка событий о переходах договора в брокер.
type AgreementEventPublisherPort interface {
	PublishAgreementEvent(ctx context.Context, event domain.AgreementEvent) error
}

// RealtimeNotifierPort - доставка уведомлений подключенным клиентам.
type RealtimeNotifierPort interface {
	Notify(ctx context.Context, notification domain.Notification)
}

// EventListenerPort - фоновый слушатель брокера.
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
