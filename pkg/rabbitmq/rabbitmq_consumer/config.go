package rabbitmq_consumer

import (
	"fmt"

	"real-estate-system/pkg/rabbitmq/rabbitmq_common"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ConsumerConfig конфигурация для потребителя
type ConsumerConfig struct {
	// Очередь
	QueueName    string
	DeclareQueue bool
	DurableQueue bool
	QueueArgs    amqp.Table

	// Обменник, к которому привязывается очередь. Пустое имя - без привязки.
	ExchangeNameForBind    string
	DeclareExchangeForBind bool
	ExchangeTypeForBind    string
	DurableExchangeForBind bool
	RoutingKeyForBind      string

	// QoS. 0 - без ограничений.
	PrefetchCount int

	ConsumerTag string

	// Сколько сообщений обрабатывается одновременно. 0 - равно PrefetchCount или 1.
	MaxInFlight int

	Retry RetryConfig

	Logger rabbitmq_common.Logger
}

// RetryConfig - очередь ожидания с TTL и финальная DLQ.
// Сообщение, упавшее в обработчике, уходит через RetryExchange в RetryQueue,
// после TTL возвращается в основной обменник. После MaxRetries попыток
// публикуется в FinalDLXExchange.
type RetryConfig struct {
	Enabled            bool
	RetryExchange      string
	RetryQueue         string
	RetryTTL           int // миллисекунды
	FinalDLXExchange   string
	FinalDLQ           string
	FinalDLQRoutingKey string
	MaxRetries         int
}

func (c ConsumerConfig) validate() error {
	if c.QueueName == "" {
		return fmt.Errorf("consumer: queue name is required")
	}
	if c.DeclareExchangeForBind && c.ExchangeTypeForBind == "" {
		return fmt.Errorf("consumer: exchange type is required if declaring an exchange for binding")
	}
	if c.PrefetchCount < 0 || c.MaxInFlight < 0 {
		return fmt.Errorf("consumer: prefetch count and max in-flight must not be negative")
	}
	if !c.Retry.Enabled {
		return nil
	}
	r := c.Retry
	if r.RetryExchange == "" || r.RetryQueue == "" || r.FinalDLXExchange == "" || r.FinalDLQ == "" {
		return fmt.Errorf("consumer: retry exchange, retry queue, final DLX and final DLQ are required when retries are enabled")
	}
	if c.ExchangeNameForBind == "" {
		return fmt.Errorf("consumer: retries need an exchange to return messages to")
	}
	if r.RetryTTL <= 0 {
		return fmt.Errorf("consumer: retry TTL must be positive")
	}
	if r.MaxRetries < 0 {
		return fmt.Errorf("consumer: max retries must not be negative")
	}
	return nil
}

func (c ConsumerConfig) inFlight() int {
	switch {
	case c.MaxInFlight > 0:
		return c.MaxInFlight
	case c.PrefetchCount > 0:
		return c.PrefetchCount
	default:
		return 1
	}
}
