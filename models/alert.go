package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EmergencyAlert is a single panic activation with its own lifecycle. Alerts
// are created only by activation and never deleted; terminal states are kept
// for audit.
type EmergencyAlert struct {
	ID      primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AlertID string             `json:"alert_id" bson:"alertId"`
	UserID  primitive.ObjectID `json:"user_id" bson:"userId"`
	Status  string             `json:"status" bson:"status"`

	ActivationMethod string `json:"activation_method" bson:"activationMethod"`
	IsSilent         bool   `json:"is_silent" bson:"isSilent"`
	FakeScreenActive bool   `json:"fake_screen_active" bson:"fakeScreenActive"`

	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
	Address   string   `json:"address,omitempty" bson:"address,omitempty"`

	EmergencyType string `json:"emergency_type,omitempty" bson:"emergencyType,omitempty"`
	Severity      string `json:"severity" bson:"severity"`
	Description   string `json:"description,omitempty" bson:"description,omitempty"`

	// Cumulative failed PIN attempts
	DeactivationAttempts int `json:"deactivation_attempts" bson:"deactivationAttempts"`

	ActivatedAt time.Time  `json:"activated_at" bson:"activatedAt"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" bson:"cancelledAt,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty" bson:"resolvedAt,omitempty"`
	LastUpdated time.Time  `json:"last_updated" bson:"lastUpdated"`
}

// Alert status constants
const (
	AlertStatusActive     = "active"
	AlertStatusCancelled  = "cancelled"
	AlertStatusResolved   = "resolved"
	AlertStatusFalseAlarm = "false_alarm"
)

// Activation method constants
const (
	ActivationMethodButton = "button"
	ActivationMethodVoice  = "voice"
	ActivationMethodShake  = "shake"
	ActivationMethodTimer  = "timer"
	ActivationMethodAuto   = "auto"
)

// IsTerminal reports whether the alert has reached a final state.
func (a *EmergencyAlert) IsTerminal() bool {
	return a.Status != AlertStatusActive
}

// LocationUpdate is an append-only position sample for an active alert.
type LocationUpdate struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AlertID    primitive.ObjectID `json:"-" bson:"alertId"`
	Latitude   float64            `json:"latitude" bson:"latitude"`
	Longitude  float64            `json:"longitude" bson:"longitude"`
	Accuracy   *float64           `json:"accuracy,omitempty" bson:"accuracy,omitempty"`
	Speed      *float64           `json:"speed,omitempty" bson:"speed,omitempty"`
	Altitude   *float64           `json:"altitude,omitempty" bson:"altitude,omitempty"`
	Heading    *float64           `json:"heading,omitempty" bson:"heading,omitempty"`
	RecordedAt time.Time          `json:"recorded_at" bson:"recordedAt"`
}

// MediaCapture is an append-only media record for an active alert.
type MediaCapture struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AlertID    primitive.ObjectID `json:"-" bson:"alertId"`
	MediaType  string             `json:"media_type" bson:"mediaType"`
	FileURL    string             `json:"file_url" bson:"fileUrl"`
	FileName   string             `json:"file_name" bson:"fileName"`
	FileSize   int64              `json:"file_size" bson:"fileSize"`
	Duration   *int               `json:"duration,omitempty" bson:"duration,omitempty"`
	CapturedAt time.Time          `json:"captured_at" bson:"capturedAt"`
}

// Media type constants
const (
	MediaTypeAudio = "audio"
	MediaTypePhoto = "photo"
	MediaTypeVideo = "video"
)

// EmergencyResponse joins one alert and one responder; the pair is unique.
// Status moves only along the transition table below, and only by the
// assigned responder's own updates (cancellation cascades aside).
type EmergencyResponse struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AlertID     primitive.ObjectID `json:"alert_id" bson:"alertId"`
	ResponderID primitive.ObjectID `json:"responder_id" bson:"responderId"`
	Status      string             `json:"status" bson:"status"`
	ETAMinutes  int                `json:"eta_minutes" bson:"etaMinutes"`
	DistanceKM  *float64           `json:"distance_km,omitempty" bson:"distanceKm,omitempty"`
	Notes       string             `json:"notes,omitempty" bson:"notes,omitempty"`

	NotifiedAt  time.Time  `json:"notified_at" bson:"notifiedAt"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty" bson:"acceptedAt,omitempty"`
	EnRouteAt   *time.Time `json:"en_route_at,omitempty" bson:"enRouteAt,omitempty"`
	OnSceneAt   *time.Time `json:"on_scene_at,omitempty" bson:"onSceneAt,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty" bson:"cancelledAt,omitempty"`
}

// Response status constants
const (
	ResponseStatusNotified  = "notified"
	ResponseStatusAccepted  = "accepted"
	ResponseStatusEnRoute   = "en_route"
	ResponseStatusOnScene   = "on_scene"
	ResponseStatusCompleted = "completed"
	ResponseStatusCancelled = "cancelled"
)

// ResponseTransitions is the directed transition graph for responder status.
// completed and cancelled are terminal.
var ResponseTransitions = map[string][]string{
	ResponseStatusNotified:  {ResponseStatusAccepted, ResponseStatusCancelled},
	ResponseStatusAccepted:  {ResponseStatusEnRoute, ResponseStatusCancelled},
	ResponseStatusEnRoute:   {ResponseStatusOnScene, ResponseStatusCancelled},
	ResponseStatusOnScene:   {ResponseStatusCompleted, ResponseStatusCancelled},
	ResponseStatusCompleted: {},
	ResponseStatusCancelled: {},
}

// CanTransition reports whether moving from the response's current status to
// the target is allowed by the transition table.
func (r *EmergencyResponse) CanTransition(to string) bool {
	for _, allowed := range ResponseTransitions[r.Status] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the response can transition no further.
func (r *EmergencyResponse) IsTerminal() bool {
	return r.Status == ResponseStatusCompleted || r.Status == ResponseStatusCancelled
}

// TransitionError describes a rejected status transition, naming both states.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal response status transition: %s -> %s", e.From, e.To)
}

// DeactivationAttempt is the append-only audit log of PIN attempts. One row is
// written for every attempt, before the PIN is evaluated.
type DeactivationAttempt struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	AlertID     primitive.ObjectID `json:"-" bson:"alertId"`
	UserID      primitive.ObjectID `json:"-" bson:"userId"`
	Success     bool               `json:"success" bson:"success"`
	DeviceInfo  string             `json:"device_info,omitempty" bson:"deviceInfo,omitempty"`
	Latitude    *float64           `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude   *float64           `json:"longitude,omitempty" bson:"longitude,omitempty"`
	AttemptedAt time.Time          `json:"attempted_at" bson:"attemptedAt"`
}

// =================== REQUEST/RESPONSE MODELS ===================

type ActivateAlertRequest struct {
	ActivationMethod string   `json:"activation_method" validate:"required,oneof=button voice shake timer auto"`
	Latitude         *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude        *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Address          string   `json:"address,omitempty"`
	IsSilent         bool     `json:"is_silent"`
	EmergencyType    string   `json:"emergency_type,omitempty" validate:"omitempty,oneof=medical fire police accident violence other"`
	Severity         string   `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Description      string   `json:"description,omitempty"`
}

type ActivateAlertResponse struct {
	AlertID            string    `json:"alert_id"`
	RespondersAssigned int       `json:"responders_assigned"`
	ContactsNotified   int       `json:"contacts_notified"`
	FakeScreenActive   bool      `json:"fake_screen_active"`
	ActivatedAt        time.Time `json:"activated_at"`
}

type DeactivateAlertRequest struct {
	AlertID    string   `json:"alert_id" validate:"required"`
	PIN        string   `json:"pin" validate:"required,pin"`
	DeviceInfo string   `json:"device_info,omitempty"`
	Latitude   *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

type DeactivateAlertResponse struct {
	AlertID            string     `json:"alert_id"`
	Status             string     `json:"status"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	ResponsesCancelled int        `json:"responses_cancelled"`
}

// WrongPINResponse is the 400 body after a failed PIN attempt. The fake screen
// stays up so a coercer cannot tell the alert is still live.
type WrongPINResponse struct {
	Attempts         int  `json:"attempts"`
	FakeScreenActive bool `json:"fake_screen_active"`
}

type UpdateLocationRequest struct {
	AlertID   string   `json:"alert_id" validate:"required"`
	Latitude  float64  `json:"latitude" validate:"latitude"`
	Longitude float64  `json:"longitude" validate:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
}

type UploadMediaRequest struct {
	AlertID   string `form:"alert_id" validate:"required"`
	MediaType string `form:"media_type" validate:"required,oneof=audio photo video"`
	Duration  *int   `form:"duration,omitempty"`
}

type UpdateResponseStatusRequest struct {
	ResponseID string `json:"response_id" validate:"required"`
	Status     string `json:"status" validate:"required,oneof=accepted en_route on_scene completed cancelled"`
	Notes      string `json:"notes,omitempty"`
	ETAMinutes *int   `json:"eta_minutes,omitempty" validate:"omitempty,min=0"`
}

// AvailableResponder is one row of the distance-sorted responder listing.
type AvailableResponder struct {
	ResponderID   string   `json:"responder_id"`
	Name          string   `json:"name"`
	AgentID       string   `json:"agent_id"`
	ResponderType string   `json:"responder_type"`
	Phone         string   `json:"phone,omitempty"`
	DistanceKM    *float64 `json:"distance_km,omitempty"`
	ETAMinutes    int      `json:"eta_minutes"`
}

// AlertDetail bundles an alert with its streams for the detail endpoint.
type AlertDetail struct {
	Alert     *EmergencyAlert     `json:"alert"`
	Locations []LocationUpdate    `json:"locations"`
	Media     []MediaCapture      `json:"media"`
	Responses []EmergencyResponse `json:"responses"`
}
