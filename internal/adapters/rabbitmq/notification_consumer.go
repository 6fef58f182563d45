package rabbitmq_adapter

import (
	"context"
	"encoding/json"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/port"
	"real-estate-system/internal/core/port/usecases_port"
	"real-estate-system/pkg/rabbitmq/rabbitmq_common"
	"real-estate-system/pkg/rabbitmq/rabbitmq_consumer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// EventValidator проверяет тело события по контракту.
type EventValidator interface {
	ValidateEvent(eventType, eventVersion string, body []byte) error
}

// NotificationConsumerAdapter превращает события о договорах в уведомления.
type NotificationConsumerAdapter struct {
	consumer  *rabbitmq_consumer.DistributingConsumer
	validator EventValidator
	useCase   usecases_port.ProcessNotificationUseCasePort
	logger    port.LoggerPort
}

func NewNotificationConsumerAdapter(
	cfg rabbitmq_consumer.ConsumerConfig,
	validator EventValidator,
	uc usecases_port.ProcessNotificationUseCasePort,
	logger port.LoggerPort,
	connManager *rabbitmq_common.ConnectionManager,
) (*NotificationConsumerAdapter, error) {
	adapter := newNotificationHandler(validator, uc, logger)

	// Логгер для pkg-уровня с контекстом нашего компонента
	pkgLogger := logger.WithFields(port.Fields{"component": "rabbitmq_distributing_consumer", "consumer_tag": cfg.ConsumerTag})
	cfg.Logger = NewPkgLoggerBridge(pkgLogger)

	consumer, err := rabbitmq_consumer.NewDistributingConsumer(cfg, adapter.messageHandler, connManager)
	if err != nil {
		return nil, err
	}
	adapter.consumer = consumer
	return adapter, nil
}

func newNotificationHandler(validator EventValidator, uc usecases_port.ProcessNotificationUseCasePort, logger port.LoggerPort) *NotificationConsumerAdapter {
	return &NotificationConsumerAdapter{validator: validator, useCase: uc, logger: logger}
}

func headerString(headers amqp.Table, key string) string {
	if headers == nil {
		return ""
	}
	value, _ := headers[key].(string)
	return value
}

// messageHandler обрабатывает одно сообщение. nil - ack, ошибка - повтор через retry-очередь.
func (a *NotificationConsumerAdapter) messageHandler(ctx context.Context, d amqp.Delivery) error {
	traceID := contextkeys.NormalizeTraceID(headerString(d.Headers, "x-trace-id"))

	msgLogger := a.logger.WithFields(port.Fields{
		"trace_id":     traceID,
		"delivery_tag": d.DeliveryTag,
	})

	ctx = contextkeys.ContextWithTraceID(ctx, traceID)

	eventType := headerString(d.Headers, "event-type")
	if eventType == "" {
		eventType = AgreementNotificationEventType
	}
	eventVersion := headerString(d.Headers, "event-version")
	if eventVersion == "" {
		eventVersion = AgreementNotificationEventVersion
	}

	if err := a.validator.ValidateEvent(eventType, eventVersion, d.Body); err != nil {
		// Битые сообщения не переотправляем
		msgLogger.Error("Event does not match contract, dropping message.", err, port.Fields{
			"event_type":    eventType,
			"event_version": eventVersion,
		})
		return nil
	}

	var dto AgreementNotificationEventDTO
	if err := json.Unmarshal(d.Body, &dto); err != nil {
		msgLogger.Error("Failed to unmarshal agreement event, dropping message.", err, nil)
		return nil
	}

	handlerLogger := msgLogger.WithFields(port.Fields{
		"event_id":     dto.EventID.String(),
		"agreement_id": dto.AgreementID.String(),
	})
	ctx = contextkeys.ContextWithLogger(ctx, handlerLogger)

	handlerLogger.Debug("Processing agreement event.", port.Fields{"type": dto.Type})

	if err := a.useCase.Execute(ctx, dto.toDomain()); err != nil {
		handlerLogger.Error("Failed to process agreement event, message will be retried.", err, nil)
		return err
	}

	handlerLogger.Debug("Agreement event processed.", nil)
	return nil
}

// Start блокируется, пока консьюмер не остановлен.
func (a *NotificationConsumerAdapter) Start(ctx context.Context) error {
	return a.consumer.StartConsuming(ctx)
}

func (a *NotificationConsumerAdapter) Close() error { return a.consumer.Close() }
