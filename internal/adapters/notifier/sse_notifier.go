package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
)

// ClientChannel - канал событий одного SSE-соединения (одной вкладки браузера).
type ClientChannel chan []byte

const (
	eventBufferSize  = 100
	clientBufferSize = 100
)

type eventWithContext struct {
	ctx          context.Context
	notification domain.Notification
}

// ssePayload - то, что получает браузер в поле data.
type ssePayload struct {
	ID          uuid.UUID `json:"id"`
	SenderID    uuid.UUID `json:"senderId"`
	Type        string    `json:"type"`
	Content     string    `json:"content"`
	AgreementID uuid.UUID `json:"agreementId"`
	IsRead      bool      `json:"isRead"`
	CreatedAt   time.Time `json:"createdAt"`
}

// SSENotifier - реализация RealtimeNotifierPort поверх Server-Sent Events.
type SSENotifier struct {
	// Ключ - ID получателя, значение - его открытые соединения
	clients map[uuid.UUID][]ClientChannel
	mu      sync.RWMutex

	eventChan chan eventWithContext
	done      chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}

	logger port.LoggerPort
}

// NewSSENotifier создает нотификатор и запускает горутину-диспетчер.
func NewSSENotifier(baseLogger port.LoggerPort) *SSENotifier {
	n := &SSENotifier{
		clients:   make(map[uuid.UUID][]ClientChannel),
		eventChan: make(chan eventWithContext, eventBufferSize),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
		logger:    baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}

	go n.dispatcher()

	return n
}

// FormatEvent собирает SSE-кадр: имя события - тип уведомления.
func FormatEvent(notification domain.Notification) ([]byte, error) {
	data, err := json.Marshal(ssePayload{
		ID:          notification.ID,
		SenderID:    notification.SenderID,
		Type:        string(notification.Type),
		Content:     notification.Content,
		AgreementID: notification.AgreementID,
		IsRead:      notification.IsRead,
		CreatedAt:   notification.CreatedAt,
	})
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", notification.Type, data)), nil
}

func (n *SSENotifier) dispatcher() {
	defer close(n.stopped)
	n.logger.Debug("Notifier dispatcher started.", nil)

	for {
		select {
		case <-n.done:
			n.logger.Debug("Notifier dispatcher stopped.", nil)
			return
		case pkg := <-n.eventChan:
			n.dispatch(pkg)
		}
	}
}

func (n *SSENotifier) dispatch(pkg eventWithContext) {
	notification := pkg.notification
	eventLogger := contextkeys.LoggerFromContext(pkg.ctx).WithFields(port.Fields{
		"component":       "SSENotifier.dispatcher",
		"notification_id": notification.ID.String(),
		"receiver_id":     notification.ReceiverID.String(),
	})

	frame, err := FormatEvent(notification)
	if err != nil {
		eventLogger.Error("Failed to marshal notification", err, nil)
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	channels, found := n.clients[notification.ReceiverID]
	if !found {
		eventLogger.Debug("No active clients for user, event dropped.", nil)
		return
	}

	for _, ch := range channels {
		// Медленный клиент не должен тормозить остальных
		select {
		case ch <- frame:
		default:
			eventLogger.Warn("Client channel is full, skipping.", nil)
		}
	}
	eventLogger.Debug("Notification dispatched", port.Fields{"channels_count": len(channels)})
}

// Notify ставит уведомление в очередь диспетчера. После Close ничего не делает.
func (n *SSENotifier) Notify(ctx context.Context, notification domain.Notification) {
	pkg := eventWithContext{ctx: context.WithoutCancel(ctx), notification: notification}

	select {
	case <-n.done:
		return
	default:
	}

	select {
	case n.eventChan <- pkg:
	case <-n.done:
	case <-ctx.Done():
		contextkeys.LoggerFromContext(ctx).Warn("Context cancelled before notification was queued", port.Fields{
			"notification_id": notification.ID.String(),
		})
	}
}

// AddClient регистрирует новое SSE-соединение пользователя.
func (n *SSENotifier) AddClient(userID uuid.UUID) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, clientBufferSize)
	select {
	case <-n.done:
		// нотификатор уже остановлен, соединение сразу завершится
		close(ch)
		return ch
	default:
	}

	n.clients[userID] = append(n.clients[userID], ch)

	n.logger.Info("Client connected for user", port.Fields{
		"user_id":                    userID.String(),
		"total_connections_for_user": len(n.clients[userID]),
	})
	return ch
}

// RemoveClient удаляет канал при отключении клиента.
func (n *SSENotifier) RemoveClient(userID uuid.UUID, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels, found := n.clients[userID]
	if !found {
		return
	}

	remaining := make([]ClientChannel, 0, len(channels))
	for _, c := range channels {
		if c != ch {
			remaining = append(remaining, c)
		}
	}

	if len(remaining) == 0 {
		delete(n.clients, userID)
		n.logger.Debug("Last client disconnected for user.", port.Fields{"user_id": userID.String()})
		return
	}
	n.clients[userID] = remaining
	n.logger.Info("Client disconnected for user.", port.Fields{
		"user_id":               userID.String(),
		"remaining_connections": len(remaining),
	})
}

// ClientsCount - количество открытых соединений пользователя.
func (n *SSENotifier) ClientsCount(userID uuid.UUID) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients[userID])
}

// Close останавливает диспетчер и закрывает каналы клиентов,
// чтобы открытые SSE-соединения завершились до остановки HTTP-сервера.
func (n *SSENotifier) Close() error {
	n.closeOnce.Do(func() {
		close(n.done)
		<-n.stopped

		n.mu.Lock()
		defer n.mu.Unlock()
		for userID, channels := range n.clients {
			for _, ch := range channels {
				close(ch)
			}
			delete(n.clients, userID)
		}
	})
	return nil
}
