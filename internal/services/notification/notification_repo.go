package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepo struct {
	db *sqlx.DB
}

func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

func (r *NotificationRepo) Create(ctx context.Context, recipientID uuid.UUID, notifType NotificationType, message string, entityID *uuid.UUID) (*Notification, error) {
	query := `
        INSERT INTO notifications (recipient_id, type, message, entity_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, recipient_id, type, message, entity_id, read, created_at
    `

	var n Notification
	err := r.db.GetContext(ctx, &n, query, recipientID, notifType, message, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return &n, nil
}

func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*Notification, error) {
	query := `
        SELECT id, recipient_id, type, message, entity_id, read, created_at
        FROM notifications
        WHERE recipient_id = $1
    `
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC LIMIT 100`

	var items []*Notification
	err := r.db.SelectContext(ctx, &items, query, recipientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return items, nil
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	query := `UPDATE notifications SET read = TRUE WHERE recipient_id = $1 AND read = FALSE`

	if _, err := r.db.ExecContext(ctx, query, recipientID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return nil
}
