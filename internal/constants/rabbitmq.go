package constants

// Обменник событий о договорах
const (
	AgreementEventsExchange     = "agreement_events"
	AgreementEventsExchangeType = "topic"
)

// Ключи маршрутизации
const (
	RoutingKeyAgreementNotification = "notification.agreement"
)

// Имена очередей
const (
	QueueAgreementNotifications = "agreement_notifications_queue"
	ConsumerTagNotifications    = "agreement-service-notifications"
)

const (
	RetryExchange = "agreement_notifications_retry"
	WaitQueue     = "agreement_notifications_wait"
)

const (
	FinalDLXExchange   = "agreement_notifications_final_dlx"
	FinalDLQ           = "agreement_notifications_final_dlq"
	FinalDLQRoutingKey = "agreement_notifications.dlq.key"
)
