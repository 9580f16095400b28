package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// How long a pending check-in may run past schedule before it counts as
// overdue.
const CheckInOverdueGrace = 15 * time.Minute

// SafetyCheckIn is one scheduled or manual "I'm safe" confirmation.
type SafetyCheckIn struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID      primitive.ObjectID `json:"-" bson:"userId"`
	Status      string             `json:"status" bson:"status"`
	ScheduledAt time.Time          `json:"scheduled_at" bson:"scheduledAt"`
	RespondedAt *time.Time         `json:"responded_at,omitempty" bson:"respondedAt,omitempty"`
	Message     string             `json:"message,omitempty" bson:"message,omitempty"`
	Latitude    *float64           `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude   *float64           `json:"longitude,omitempty" bson:"longitude,omitempty"`
	CreatedAt   time.Time          `json:"created_at" bson:"createdAt"`
}

// Check-in status constants
const (
	CheckInStatusPending   = "pending"
	CheckInStatusSafe      = "safe"
	CheckInStatusMissed    = "missed"
	CheckInStatusEmergency = "emergency"
)

// IsOverdue reports whether a pending check-in has run past its grace window.
// Derived, never stored; resolved check-ins are never overdue.
func (c *SafetyCheckIn) IsOverdue() bool {
	return c.IsOverdueAt(time.Now())
}

// IsOverdueAt is IsOverdue evaluated against an explicit clock.
func (c *SafetyCheckIn) IsOverdueAt(now time.Time) bool {
	if c.Status != CheckInStatusPending {
		return false
	}
	return now.Sub(c.ScheduledAt) >= CheckInOverdueGrace
}

// SafetyCheckSettings is a user's check-in schedule configuration.
type SafetyCheckSettings struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"-" bson:"userId"`
	Enabled       bool               `json:"enabled" bson:"enabled"`
	IntervalHours int                `json:"interval_hours" bson:"intervalHours"`
	NotifyContact bool               `json:"notify_contacts" bson:"notifyContacts"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updatedAt"`
}

type UpdateCheckInSettingsRequest struct {
	Enabled       *bool `json:"enabled,omitempty"`
	IntervalHours *int  `json:"interval_hours,omitempty" validate:"omitempty,min=1,max=168"`
	NotifyContact *bool `json:"notify_contacts,omitempty"`
}

type ScheduleCheckInRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Message     string    `json:"message,omitempty"`
}

type ManualCheckInRequest struct {
	Message   string   `json:"message,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// CheckInView decorates a check-in with the derived overdue flag.
type CheckInView struct {
	SafetyCheckIn
	IsOverdue bool `json:"is_overdue"`
}
