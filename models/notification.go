package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmergencyNotification is a persisted notification row addressed to one user,
// optionally tied to an alert. SMS/push dispatch is best-effort on top.
type EmergencyNotification struct {
	ID        primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID     `json:"-" bson:"userId"`
	AlertID   *primitive.ObjectID    `json:"alert_id,omitempty" bson:"alertId,omitempty"`
	Type      string                 `json:"type" bson:"type"`
	Title     string                 `json:"title" bson:"title"`
	Message   string                 `json:"message" bson:"message"`
	IsRead    bool                   `json:"is_read" bson:"isRead"`
	Payload   map[string]interface{} `json:"payload,omitempty" bson:"payload,omitempty"`
	CreatedAt time.Time              `json:"created_at" bson:"createdAt"`
}

// Notification type constants
const (
	NotificationAlertActivated    = "alert_activated"
	NotificationAlertCancelled    = "alert_cancelled"
	NotificationAlertResolved     = "alert_resolved"
	NotificationResponderAssigned = "responder_assigned"
	NotificationResponderUpdate   = "responder_update"
	NotificationLocationUpdate    = "location_update"
	NotificationMediaCaptured     = "media_captured"
	NotificationPossibleCoercion  = "possible_coercion"
	NotificationContactAlert      = "contact_alert"
	NotificationCheckInMissed     = "checkin_missed"
	NotificationIncidentUpdate    = "incident_update"
)
