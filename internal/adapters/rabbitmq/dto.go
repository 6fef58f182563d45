package rabbitmq_adapter

import (
	"time"

	"real-estate-system/internal/core/domain"

	"github.com/google/uuid"
)

// Тип и версия контракта события, передаются в заголовках сообщения.
const (
	AgreementNotificationEventType    = "AgreementNotificationEvent"
	AgreementNotificationEventVersion = "1.0.0"
)

// AgreementNotificationEventDTO соответствует схеме events/agreement-notification/v1.json.
type AgreementNotificationEventDTO struct {
	EventID     uuid.UUID `json:"eventId"`
	Type        string    `json:"type"`
	SenderID    uuid.UUID `json:"senderId"`
	ReceiverID  uuid.UUID `json:"receiverId"`
	AgreementID uuid.UUID `json:"agreementId"`
	OccurredAt  time.Time `json:"occurredAt"`
}

func toEventDTO(e domain.AgreementEvent) AgreementNotificationEventDTO {
	return AgreementNotificationEventDTO{
		EventID:     e.ID,
		Type:        string(e.Type),
		SenderID:    e.SenderID,
		ReceiverID:  e.ReceiverID,
		AgreementID: e.AgreementID,
		OccurredAt:  e.OccurredAt.UTC(),
	}
}

func (d AgreementNotificationEventDTO) toDomain() domain.AgreementEvent {
	return domain.AgreementEvent{
		ID:          d.EventID,
		Type:        domain.NotificationType(d.Type),
		SenderID:    d.SenderID,
		ReceiverID:  d.ReceiverID,
		AgreementID: d.AgreementID,
		OccurredAt:  d.OccurredAt,
	}
}
