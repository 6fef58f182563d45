package rabbitmq_consumer

import amqp "github.com/rabbitmq/amqp091-go"

// deathCount возвращает, сколько раз сообщение было отклонено из очереди queueName.
// Берется из заголовка x-death, который брокер дописывает при dead-lettering.
func deathCount(headers amqp.Table, queueName string) int64 {
	if headers == nil {
		return 0
	}
	deaths, ok := headers["x-death"].([]interface{})
	if !ok {
		return 0
	}

	for _, death := range deaths {
		tbl, ok := death.(amqp.Table)
		if !ok {
			continue
		}
		// записи о retry-очереди нас не интересуют
		if queue, _ := tbl["queue"].(string); queue != queueName {
			continue
		}
		switch count := tbl["count"].(type) {
		case int64:
			return count
		case int32:
			return int64(count)
		case int:
			return int64(count)
		}
	}
	return 0
}

// retryDecision - что делать с упавшим сообщением
type retryDecision int

const (
	decisionDrop     retryDecision = iota // ретраи выключены
	decisionRetry                         // nack без requeue, уходит в очередь ожидания
	decisionDeadEnd                       // попытки исчерпаны, публикуем в финальный DLX
)

func decideRetry(retry RetryConfig, deaths int64) retryDecision {
	if !retry.Enabled {
		return decisionDrop
	}
	if deaths < int64(retry.MaxRetries) {
		return decisionRetry
	}
	return decisionDeadEnd
}
