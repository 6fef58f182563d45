package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationNewAgreement       NotificationType = "new_agreement"
	NotificationAgreementAccepted  NotificationType = "agreement_accepted"
	NotificationAgreementCountered NotificationType = "agreement_countered"
	NotificationAgreementDeclined  NotificationType = "agreement_declined"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationNewAgreement, NotificationAgreementAccepted, NotificationAgreementCountered, NotificationAgreementDeclined:
		return true
	}
	return false
}

// MaxLatestNotifications - размер ленты последних уведомлений.
const MaxLatestNotifications = 5

// AgreementEvent - событие о переходе договора. Публикуется в брокер,
// адресовано второму участнику относительно отправителя.
type AgreementEvent struct {
	ID          uuid.UUID
	Type        NotificationType
	SenderID    uuid.UUID
	ReceiverID  uuid.UUID
	AgreementID uuid.UUID
	OccurredAt  time.Time
}

// NewAgreementEvent адресует событие участнику, который не является senderID.
func NewAgreementEvent(t NotificationType, senderID uuid.UUID, a *Agreement, now time.Time) AgreementEvent {
	return AgreementEvent{
		ID:          uuid.New(),
		Type:        t,
		SenderID:    senderID,
		ReceiverID:  a.OtherParty(senderID),
		AgreementID: a.ID,
		OccurredAt:  now,
	}
}

// Notification - сохраненное уведомление пользователя.
type Notification struct {
	ID          uuid.UUID
	SenderID    uuid.UUID
	ReceiverID  uuid.UUID
	Type        NotificationType
	Content     string
	AgreementID uuid.UUID
	IsRead      bool
	CreatedAt   time.Time
}

// PaginatedNotifications - страница уведомлений.
type PaginatedNotifications struct {
	Items  []Notification
	Total  int
	Limit  int
	Offset int
}

// NotificationContent - текст уведомления для получателя.
func NotificationContent(t NotificationType, senderName string) string {
	switch t {
	case NotificationNewAgreement:
		return fmt.Sprintf("Check out a new proposal from %s.", senderName)
	case NotificationAgreementAccepted:
		return fmt.Sprintf("Congratulations. %s accepted your proposal.", senderName)
	case NotificationAgreementCountered:
		return fmt.Sprintf("%s suggests a counter proposal. Take a look.", senderName)
	case NotificationAgreementDeclined:
		return fmt.Sprintf("%s declines your proposal. Sorry to hear that.", senderName)
	}
	return ""
}

// NewNotification строит уведомление из события брокера.
func NewNotification(event AgreementEvent, senderName string, now time.Time) *Notification {
	return &Notification{
		ID:          event.ID,
		SenderID:    event.SenderID,
		ReceiverID:  event.ReceiverID,
		Type:        event.Type,
		Content:     NotificationContent(event.Type, senderName),
		AgreementID: event.AgreementID,
		IsRead:      false,
		CreatedAt:   now,
	}
}
