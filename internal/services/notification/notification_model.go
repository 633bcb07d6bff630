package notification

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType mirrors the event kinds detected by snapshot diffing.
type NotificationType string

const (
	TypeAssigned NotificationType = "assigned"
	TypeUpdated  NotificationType = "updated"
	TypeCreated  NotificationType = "created"
)

type Notification struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	RecipientID uuid.UUID        `db:"recipient_id" json:"recipientId"`
	Type        NotificationType `db:"type" json:"type"`
	Message     string           `db:"message" json:"message"`
	EntityID    *uuid.UUID       `db:"entity_id" json:"entityId,omitempty"`
	Read        bool             `db:"read" json:"read"`
	CreatedAt   time.Time        `db:"created_at" json:"createdAt"`
}
