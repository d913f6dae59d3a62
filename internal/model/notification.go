package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeAppointment  NotificationType = "appointment"
	NotificationTypeEmergency    NotificationType = "emergency"
	NotificationTypeMedication   NotificationType = "medication"
	NotificationTypePrescription NotificationType = "prescription"
	NotificationTypeSystem       NotificationType = "system"
)

// Notification is the logical record of a state-change message. Delivery is
// best-effort: the dispatcher writes the row and an outbox event, and the
// worker fans it out; no command ever fails because of it.
type Notification struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	RecipientID uuid.UUID        `db:"recipient_id" json:"recipient_id"`
	Title       string           `db:"title" json:"title"`
	Message     string           `db:"message" json:"message"`
	Type        NotificationType `db:"type" json:"type"`
	Link        string           `db:"link" json:"link,omitempty"`
	Read        bool             `db:"read" json:"read"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
