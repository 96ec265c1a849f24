package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bakikhata/bakikhata/internal/apperrors"
	"github.com/bakikhata/bakikhata/internal/models"
)

type NotificationRepo struct {
	DB DBTX
}

const createNotification = `-- name: CreateNotification
INSERT INTO notifications (id, user_id, notification_type, title, message, is_read, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, user_id, notification_type, title, message, is_read, created_at
`

func (r *NotificationRepo) Create(ctx context.Context, n models.Notification) (models.Notification, error) {
	rows, _ := r.DB.Query(ctx, createNotification, n.ID, n.UserID, n.Type, n.Title, n.Message, n.IsRead, n.CreatedAt)
	n, err := pgx.CollectOneRow(rows, rowToNotification)
	if err != nil {
		return n, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

const listNotifications = `-- name: ListNotifications
SELECT id, user_id, notification_type, title, message, is_read, created_at
FROM notifications
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Notification, error) {
	rows, _ := r.DB.Query(ctx, listNotifications, userID)
	notifications, err := pgx.CollectRows(rows, rowToNotification)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return notifications, nil
}

const markNotificationRead = `-- name: MarkNotificationRead
UPDATE notifications
SET is_read = true
WHERE user_id = $1 AND id = $2
`

func (r *NotificationRepo) MarkRead(ctx context.Context, userID uuid.UUID, notificationID uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, markNotificationRead, userID, notificationID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

const markAllNotificationsRead = `-- name: MarkAllNotificationsRead
UPDATE notifications
SET is_read = true
WHERE user_id = $1 AND is_read = false
`

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.DB.Exec(ctx, markAllNotificationsRead, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func rowToNotification(row pgx.CollectableRow) (models.Notification, error) {
	var n models.Notification
	err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt)
	return n, err
}
