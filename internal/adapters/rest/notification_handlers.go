package rest

import (
	"fmt"
	"net/http"
	"time"

	"real-estate-system/internal/adapters/notifier"
	"real-estate-system/internal/core/port"
	"real-estate-system/internal/core/port/usecases_port"

	"github.com/google/uuid"
)

// ClientHub - реестр SSE-подписок пользователей.
type ClientHub interface {
	AddClient(userID uuid.UUID) notifier.ClientChannel
	RemoveClient(userID uuid.UUID, ch notifier.ClientChannel)
}

type NotificationHandler struct {
	getUC      usecases_port.GetNotificationsUseCasePort
	latestUC   usecases_port.GetLatestNotificationsUseCasePort
	markReadUC usecases_port.MarkNotificationsReadUseCasePort
	hub        ClientHub
	keepAlive  time.Duration
}

func NewNotificationHandler(
	getUC usecases_port.GetNotificationsUseCasePort,
	latestUC usecases_port.GetLatestNotificationsUseCasePort,
	markReadUC usecases_port.MarkNotificationsReadUseCasePort,
	hub ClientHub,
) *NotificationHandler {
	return &NotificationHandler{
		getUC:      getUC,
		latestUC:   latestUC,
		markReadUC: markReadUC,
		hub:        hub,
		keepAlive:  15 * time.Second,
	}
}

// GetNotifications обрабатывает GET /api/v1/notifications
func (h *NotificationHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetNotifications")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}
	limit, offset, err := GetPage(r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}

	page, err := h.getUC.Execute(r.Context(), actor, limit, offset)
	if err != nil {
		respondError(w, logger, err, "Failed to retrieve notifications")
		return
	}
	RespondWithJSON(w, http.StatusOK, PaginatedNotificationsResponse{
		Data:   toNotificationsResponse(page.Items),
		Total:  page.Total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// GetLatestNotifications обрабатывает GET /api/v1/notifications/latest
func (h *NotificationHandler) GetLatestNotifications(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "GetLatestNotifications")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	items, err := h.latestUC.Execute(r.Context(), actor)
	if err != nil {
		respondError(w, logger, err, "Failed to retrieve notifications")
		return
	}
	RespondWithJSON(w, http.StatusOK, toNotificationsResponse(items))
}

// MarkRead обрабатывает PUT /api/v1/notifications/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "MarkRead")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	body, err := readBody(w, r)
	if err != nil {
		respondError(w, logger, err, "")
		return
	}
	var req MarkReadRequest
	if err := decodeJSON(body, &req); err != nil {
		respondError(w, logger, err, "")
		return
	}

	updated, err := h.markReadUC.Execute(r.Context(), actor, req.IDs)
	if err != nil {
		respondError(w, logger, err, "Failed to mark notifications as read")
		return
	}
	RespondWithJSON(w, http.StatusOK, MarkReadResponse{Updated: updated})
}

// Stream обрабатывает GET /api/v1/notifications/stream (Server-Sent Events)
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger(r, "Stream")
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := h.hub.AddClient(actor.UserID)
	defer h.hub.RemoveClient(actor.UserID, clientChan)

	// Отправляем ping для подтверждения установки соединения
	fmt.Fprintf(w, "event: connected\ndata: {}\n\n")
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case data, open := <-clientChan:
			if !open {
				logger.Info("Notifier closed, ending SSE connection.", nil)
				return
			}
			if _, err := w.Write(data); err != nil {
				logger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flusher.Flush()
			logger.Debug("Sent SSE event to client", port.Fields{"bytes": len(data)})

		case <-ticker.C:
			// строки с двоеточия - комментарии SSE, клиент их игнорирует
			if _, err := fmt.Fprintf(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			logger.Info("SSE client disconnected.", nil)
			return
		}
	}
}
