package usecase

import (
	"context"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"
)

// ProcessNotificationUseCase превращает событие брокера в сохраненное уведомление
// и отправляет его подключенному получателю.
type ProcessNotificationUseCase struct {
	users         port.UserRepositoryPort
	notifications port.NotificationRepositoryPort
	notifier      port.RealtimeNotifierPort
	clock         port.ClockPort
}

func NewProcessNotificationUseCase(
	users port.UserRepositoryPort,
	notifications port.NotificationRepositoryPort,
	notifier port.RealtimeNotifierPort,
	clock port.ClockPort,
) *ProcessNotificationUseCase {
	return &ProcessNotificationUseCase{
		users:         users,
		notifications: notifications,
		notifier:      notifier,
		clock:         clock,
	}
}

// Execute идемпотентен: повторная доставка того же события ничего не меняет.
// Ошибка возвращается только для временных сбоев, чтобы брокер повторил доставку.
func (uc *ProcessNotificationUseCase) Execute(ctx context.Context, event domain.AgreementEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	ucLogger := logger.WithFields(port.Fields{
		"use_case":     "ProcessNotification",
		"event_id":     event.ID.String(),
		"event_type":   event.Type,
		"receiver_id":  event.ReceiverID.String(),
		"agreement_id": event.AgreementID.String(),
	})

	ucLogger.Info("Use case started", nil)

	if !event.Type.IsValid() {
		ucLogger.Warn("Unknown notification type, event skipped", nil)
		return nil
	}

	sender, err := uc.users.FindByID(ctx, event.SenderID)
	if err != nil {
		ucLogger.Error("Repository failed to load sender", err, nil)
		return fmt.Errorf("failed to load sender: %w", err)
	}
	senderName := "Someone"
	if sender != nil {
		senderName = sender.DisplayName()
	} else {
		ucLogger.Warn("Sender not found, using placeholder name", port.Fields{"sender_id": event.SenderID.String()})
	}

	notification := domain.NewNotification(event, senderName, uc.clock.Now())

	created, err := uc.notifications.Create(ctx, notification)
	if err != nil {
		ucLogger.Error("Repository failed to save notification", err, nil)
		return fmt.Errorf("failed to save notification: %w", err)
	}
	if !created {
		ucLogger.Info("Notification already stored, duplicate delivery skipped", nil)
		return nil
	}

	if uc.notifier != nil {
		uc.notifier.Notify(ctx, *notification)
	}

	ucLogger.Info("Use case finished successfully", nil)
	return nil
}
