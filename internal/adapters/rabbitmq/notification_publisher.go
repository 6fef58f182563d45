package rabbitmq_adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// MessagePublisher - то, что умеет rabbitmq_producer.Publisher.
type MessagePublisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// AgreementEventPublisherAdapter отправляет события о переходах договоров в обменник.
type AgreementEventPublisherAdapter struct {
	producer   MessagePublisher
	routingKey string
}

func NewAgreementEventPublisherAdapter(producer MessagePublisher, routingKey string) (*AgreementEventPublisherAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	return &AgreementEventPublisherAdapter{
		producer:   producer,
		routingKey: routingKey,
	}, nil
}

func (a *AgreementEventPublisherAdapter) PublishAgreementEvent(ctx context.Context, event domain.AgreementEvent) error {
	logger := contextkeys.LoggerFromContext(ctx)
	adapterLogger := logger.WithFields(port.Fields{
		"component":    "AgreementEventPublisherAdapter",
		"routing_key":  a.routingKey,
		"event_id":     event.ID.String(),
		"event_type":   string(event.Type),
		"agreement_id": event.AgreementID.String(),
	})

	body, err := json.Marshal(toEventDTO(event))
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal event: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent, // Для сохранения сообщений при перезапуске брокера
		MessageId:    event.ID.String(),
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"event-type":    AgreementNotificationEventType,
			"event-version": AgreementNotificationEventVersion,
		},
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	// Таймаут на публикацию, если контекст его не предоставляет
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	adapterLogger.Debug("Publishing agreement event", nil)
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish agreement event", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish event %s: %w", event.ID, err)
	}

	adapterLogger.Info("Agreement event published", nil)
	return nil
}
