package rabbitmq_consumer

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// declareTopology объявляет очередь, обменник, привязку и инфраструктуру ретраев.
func declareTopology(ch *amqp.Channel, cfg ConsumerConfig) (string, error) {
	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			return "", fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	if cfg.Retry.Enabled {
		if err := declareRetryTopology(ch, cfg); err != nil {
			return "", err
		}
	}

	if cfg.DeclareExchangeForBind {
		err := ch.ExchangeDeclare(cfg.ExchangeNameForBind, cfg.ExchangeTypeForBind, cfg.DurableExchangeForBind, false, false, false, nil)
		if err != nil {
			return "", fmt.Errorf("failed to declare exchange '%s' for binding: %w", cfg.ExchangeNameForBind, err)
		}
	}

	queueName := cfg.QueueName
	if cfg.DeclareQueue {
		q, err := ch.QueueDeclare(queueName, cfg.DurableQueue, false, false, false, queueArgs(cfg))
		if err != nil {
			return "", fmt.Errorf("failed to declare queue '%s': %w", queueName, err)
		}
		queueName = q.Name
	}

	if cfg.ExchangeNameForBind != "" {
		if err := ch.QueueBind(queueName, cfg.RoutingKeyForBind, cfg.ExchangeNameForBind, false, nil); err != nil {
			return "", fmt.Errorf("failed to bind queue '%s' to exchange '%s': %w", queueName, cfg.ExchangeNameForBind, err)
		}
	}

	return queueName, nil
}

// queueArgs: "мертвые" сообщения основной очереди уходят в retry-обменник
func queueArgs(cfg ConsumerConfig) amqp.Table {
	args := amqp.Table{}
	for k, v := range cfg.QueueArgs {
		args[k] = v
	}
	if cfg.Retry.Enabled {
		args["x-dead-letter-exchange"] = cfg.Retry.RetryExchange
	}
	return args
}

func declareRetryTopology(ch *amqp.Channel, cfg ConsumerConfig) error {
	r := cfg.Retry

	if err := ch.ExchangeDeclare(r.FinalDLXExchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(r.FinalDLQ, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare final DLQ: %w", err)
	}
	if err := ch.QueueBind(r.FinalDLQ, r.FinalDLQRoutingKey, r.FinalDLXExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind final DLQ: %w", err)
	}

	if err := ch.ExchangeDeclare(r.RetryExchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare retry exchange: %w", err)
	}
	// Очередь ожидания: после TTL сообщение возвращается в основной обменник
	// с исходным ключом маршрутизации.
	_, err := ch.QueueDeclare(r.RetryQueue, true, false, false, false, amqp.Table{
		"x-message-ttl":          int32(r.RetryTTL),
		"x-dead-letter-exchange": cfg.ExchangeNameForBind,
	})
	if err != nil {
		return fmt.Errorf("failed to declare retry-wait queue: %w", err)
	}
	if err := ch.QueueBind(r.RetryQueue, "", r.RetryExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind retry-wait queue: %w", err)
	}
	return nil
}
