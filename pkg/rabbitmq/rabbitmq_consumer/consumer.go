package rabbitmq_consumer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"real-estate-system/pkg/rabbitmq/rabbitmq_common"
	"real-estate-system/pkg/rabbitmq/rabbitmq_producer"

	amqp "github.com/rabbitmq/amqp091-go"
)

// MessageHandler обрабатывает одно сообщение. nil - ack, ошибка - ретрай по RetryConfig.
// Пакет сам решает, как делать ack/nack.
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// DistributingConsumer раздает сообщения очереди обработчикам в отдельных горутинах,
// не больше MaxInFlight одновременно.
type DistributingConsumer struct {
	config      ConsumerConfig
	handler     MessageHandler
	connManager *rabbitmq_common.ConnectionManager

	channel   *amqp.Channel
	queueName string
	dlx       *rabbitmq_producer.Publisher

	wg     sync.WaitGroup
	logger rabbitmq_common.Logger
}

func NewDistributingConsumer(cfg ConsumerConfig, handler MessageHandler, connManager *rabbitmq_common.ConnectionManager) (*DistributingConsumer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, fmt.Errorf("consumer: message handler is required")
	}
	if connManager == nil {
		return nil, fmt.Errorf("consumer: connection manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = rabbitmq_common.NewNoopLogger()
	}

	c := &DistributingConsumer{
		config:      cfg,
		handler:     handler,
		connManager: connManager,
		logger:      logger,
	}

	if err := c.setup(); err != nil {
		return nil, err
	}

	if cfg.Retry.Enabled {
		dlx, err := rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
			ExchangeName: cfg.Retry.FinalDLXExchange,
			Logger:       logger,
		}, connManager)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("consumer: failed to create final DLX publisher: %w", err)
		}
		c.dlx = dlx
	}

	return c, nil
}

func (c *DistributingConsumer) setup() error {
	_, ch, err := c.connManager.GetChannel()
	if err != nil {
		return fmt.Errorf("consumer: failed to get channel from manager: %w", err)
	}

	queueName, err := declareTopology(ch, c.config)
	if err != nil {
		_ = ch.Close()
		return fmt.Errorf("consumer: setup failed: %w", err)
	}

	c.channel = ch
	c.queueName = queueName
	c.logger.Debug("Consumer setup complete", "queue", queueName)
	return nil
}

// StartConsuming блокируется до отмены ctx или закрытия канала брокером.
// При закрытии канала возвращает ошибку, чтобы вызывающий код мог пересоздать потребителя.
func (c *DistributingConsumer) StartConsuming(ctx context.Context) error {
	if c.channel == nil || c.channel.IsClosed() {
		return fmt.Errorf("consumer: channel is not open")
	}

	msgs, err := c.channel.Consume(
		c.queueName,
		c.config.ConsumerTag,
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("consumer %s: failed to register on queue '%s': %w", c.config.ConsumerTag, c.queueName, err)
	}

	channelClosed := c.channel.NotifyClose(make(chan *amqp.Error, 1))
	slots := make(chan struct{}, c.config.inFlight())

	c.logger.Info("[*] Waiting for messages", "queue_name", c.queueName, "consumer_tag", c.config.ConsumerTag)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Context cancelled, consumer loop stopped", "consumer_tag", c.config.ConsumerTag)
			return nil

		case amqpErr := <-channelClosed:
			if amqpErr == nil {
				return nil
			}
			c.logger.Error(amqpErr, "Consumer channel closed by broker", "consumer_tag", c.config.ConsumerTag)
			return amqpErr

		case d, ok := <-msgs:
			if !ok {
				c.logger.Info("Deliveries channel closed", "consumer_tag", c.config.ConsumerTag)
				return nil
			}

			select {
			case slots <- struct{}{}:
			case <-ctx.Done():
				// сообщение вернется в очередь после закрытия канала
				return nil
			}

			c.wg.Add(1)
			go func(delivery amqp.Delivery) {
				defer c.wg.Done()
				defer func() { <-slots }()
				c.process(ctx, delivery)
			}(d)
		}
	}
}

func (c *DistributingConsumer) process(ctx context.Context, d amqp.Delivery) {
	c.logger.Debug("[->] Processing message", "consumer_tag", c.config.ConsumerTag, "delivery_tag", d.DeliveryTag)

	handlerErr := c.handler(ctx, d)
	if handlerErr == nil {
		_ = d.Ack(false)
		c.logger.Debug("[+] Message acked", "delivery_tag", d.DeliveryTag)
		return
	}

	c.logger.Error(handlerErr, "Handler error for message", "consumer_tag", c.config.ConsumerTag, "delivery_tag", d.DeliveryTag)

	deaths := deathCount(d.Headers, c.queueName)
	switch decideRetry(c.config.Retry, deaths) {
	case decisionDrop:
		c.logger.Warn("Retry disabled, dropping message", "delivery_tag", d.DeliveryTag)
		_ = d.Nack(false, false)

	case decisionRetry:
		c.logger.Info("Retrying message", "delivery_tag", d.DeliveryTag, "death_count", deaths)
		_ = d.Nack(false, false)

	case decisionDeadEnd:
		c.logger.Warn("Max retries reached, publishing to final DLX", "delivery_tag", d.DeliveryTag, "death_count", deaths)
		err := c.dlx.Publish(context.Background(), c.config.Retry.FinalDLQRoutingKey, amqp.Publishing{
			ContentType:  d.ContentType,
			Body:         d.Body,
			Headers:      d.Headers,
			Timestamp:    time.Now(),
			DeliveryMode: amqp.Persistent,
		})
		if err != nil {
			// не смогли отправить в DLQ - пусть сообщение сходит на еще один круг
			c.logger.Error(err, "Failed to publish to final DLX", "delivery_tag", d.DeliveryTag)
			_ = d.Nack(false, false)
			return
		}
		_ = d.Ack(false)
	}
}

// Close ждет завершения обработчиков и закрывает канал потребителя
func (c *DistributingConsumer) Close() error {
	c.logger.Debug("Waiting for message handlers to finish", "consumer_tag", c.config.ConsumerTag)
	c.wg.Wait()

	var firstErr error
	if c.dlx != nil {
		if err := c.dlx.Close(); err != nil {
			firstErr = err
		}
	}
	if c.channel != nil && !c.channel.IsClosed() {
		if err := c.channel.Close(); err != nil {
			c.logger.Error(err, "Error closing consumer channel")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	c.channel = nil

	c.logger.Info("Consumer closed", "consumer_tag", c.config.ConsumerTag)
	return firstErr
}
