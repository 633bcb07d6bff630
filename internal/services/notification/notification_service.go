package notification

import (
	"context"

	"github.com/google/uuid"
)

type NotificationService struct {
	repo *NotificationRepo
}

func NewNotificationService(repo *NotificationRepo) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Notify(ctx context.Context, recipientID uuid.UUID, notifType NotificationType, message string, entityID *uuid.UUID) (*Notification, error) {
	return s.repo.Create(ctx, recipientID, notifType, message, entityID)
}

func (s *NotificationService) List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*Notification, error) {
	return s.repo.ListByRecipient(ctx, recipientID, unreadOnly)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}
