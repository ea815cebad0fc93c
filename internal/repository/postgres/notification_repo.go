package postgres

import (
	"context"
	"fmt"

	"github.com/dafibh/committee/committee-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NotificationRepository implements domain.NotificationRepository using PostgreSQL
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts an unread notification
func (r *NotificationRepository) Create(n *domain.Notification) (*domain.Notification, error) {
	logQuery("CreateNotification")
	created := *n
	var notifType string
	err := r.pool.QueryRow(context.Background(),
		`INSERT INTO notifications (user_id, type, title, message, related_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, user_id, type, title, message, related_id, read, created_at`,
		n.UserID, string(n.Type), n.Title, n.Message, n.RelatedID,
	).Scan(&created.ID, &created.UserID, &notifType, &created.Title, &created.Message,
		&created.RelatedID, &created.Read, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	created.Type = domain.NotificationType(notifType)
	return &created, nil
}

// GetByUser lists a user's latest notifications, newest first
func (r *NotificationRepository) GetByUser(userID uuid.UUID, limit int32) ([]*domain.Notification, error) {
	logQuery("GetNotificationsByUser")
	rows, err := r.pool.Query(context.Background(),
		`SELECT id, user_id, type, title, message, related_id, read, created_at
		 FROM notifications
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		var (
			n         domain.Notification
			notifType string
		)
		if err := rows.Scan(&n.ID, &n.UserID, &notifType, &n.Title, &n.Message, &n.RelatedID, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Type = domain.NotificationType(notifType)
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// MarkRead marks one of the user's notifications read
func (r *NotificationRepository) MarkRead(userID, id uuid.UUID) error {
	logQuery("MarkNotificationRead")
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification of the user and returns how many changed
func (r *NotificationRepository) MarkAllRead(userID uuid.UUID) (int64, error) {
	logQuery("MarkAllNotificationsRead")
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CountUnread counts the user's unread notifications
func (r *NotificationRepository) CountUnread(userID uuid.UUID) (int64, error) {
	logQuery("CountUnreadNotifications")
	var count int64
	err := r.pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
