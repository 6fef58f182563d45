package postgres_adapter

import (
	"context"
	"fmt"

	"real-estate-system/internal/contextkeys"
	"real-estate-system/internal/core/domain"
	"real-estate-system/internal/core/port"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationColumns = `id, sender_id, receiver_id, type, content, agreement_id, is_read, created_at`

// NotificationRepository - хранилище уведомлений пользователей.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) (*NotificationRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &NotificationRepository{pool: pool}, nil
}

func (r *NotificationRepository) logger(ctx context.Context, method string, receiverID uuid.UUID) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "NotificationRepository",
		"method":      method,
		"receiver_id": receiverID.String(),
	})
}

// Create вставляет уведомление. Повторная доставка того же события ничего не меняет.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (bool, error) {
	repoLogger := r.logger(ctx, "Create", n.ReceiverID).WithFields(port.Fields{"notification_id": n.ID.String()})

	query := `INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query, n.ID, n.SenderID, n.ReceiverID, string(n.Type), n.Content, n.AgreementID, n.IsRead, n.CreatedAt)
	if err != nil {
		repoLogger.Error("Failed to create notification", err, nil)
		return false, fmt.Errorf("failed to create notification: %w", mapWriteError(err))
	}

	created := tag.RowsAffected() > 0
	repoLogger.Debug("Notification insert finished.", port.Fields{"created": created})
	return created, nil
}

func scanNotifications(rows pgx.Rows, capacity int) ([]domain.Notification, error) {
	defer rows.Close()

	items := make([]domain.Notification, 0, capacity)
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.SenderID, &n.ReceiverID, &n.Type, &n.Content, &n.AgreementID, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		items = append(items, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during notifications iteration: %w", err)
	}
	return items, nil
}

func (r *NotificationRepository) FindByReceiver(ctx context.Context, receiverID uuid.UUID, limit, offset int) ([]domain.Notification, int, error) {
	repoLogger := r.logger(ctx, "FindByReceiver", receiverID)

	var total int
	countQuery := `SELECT COUNT(*) FROM notifications WHERE receiver_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, receiverID).Scan(&total); err != nil {
		repoLogger.Error("Failed to count notifications", err, port.Fields{"query": countQuery})
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	if total == 0 {
		return []domain.Notification{}, 0, nil
	}

	dataQuery := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE receiver_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, dataQuery, receiverID, limit, offset)
	if err != nil {
		repoLogger.Error("Failed to query notifications", err, port.Fields{"query": dataQuery})
		return nil, 0, fmt.Errorf("failed to query notifications: %w", err)
	}
	items, err := scanNotifications(rows, limit)
	if err != nil {
		repoLogger.Error("Failed to read notifications", err, nil)
		return nil, 0, err
	}
	return items, total, nil
}

func (r *NotificationRepository) FindLatest(ctx context.Context, receiverID uuid.UUID, limit int) ([]domain.Notification, error) {
	repoLogger := r.logger(ctx, "FindLatest", receiverID)

	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE receiver_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.pool.Query(ctx, query, receiverID, limit)
	if err != nil {
		repoLogger.Error("Failed to query latest notifications", err, port.Fields{"query": query})
		return nil, fmt.Errorf("failed to query latest notifications: %w", err)
	}
	items, err := scanNotifications(rows, limit)
	if err != nil {
		repoLogger.Error("Failed to read latest notifications", err, nil)
		return nil, err
	}
	return items, nil
}

// MarkRead затрагивает только уведомления этого получателя.
func (r *NotificationRepository) MarkRead(ctx context.Context, receiverID uuid.UUID, ids []uuid.UUID) (int64, error) {
	repoLogger := r.logger(ctx, "MarkRead", receiverID)

	query := `UPDATE notifications SET is_read = TRUE WHERE receiver_id = $1 AND id = ANY($2) AND is_read = FALSE`
	tag, err := r.pool.Exec(ctx, query, receiverID, ids)
	if err != nil {
		repoLogger.Error("Failed to mark notifications as read", err, nil)
		return 0, fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	repoLogger.Debug("Notifications marked as read.", port.Fields{"updated": tag.RowsAffected()})
	return tag.RowsAffected(), nil
}
