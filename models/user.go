package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User account. Agents (responders) carry the extra responder fields;
// availability lives in ResponderStatus, not here.
type User struct {
	ID       primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FullName string             `json:"name" bson:"fullName"`
	Email    string             `json:"email" bson:"email"`
	Password string             `json:"-" bson:"password"`
	UserType string             `json:"user_type" bson:"userType"`

	// Responder profile (agents only)
	AgentID        string  `json:"agent_id,omitempty" bson:"agentId,omitempty"`
	ResponderType  string  `json:"responder_type,omitempty" bson:"responderType,omitempty"`
	BadgeNumber    string  `json:"badge_number,omitempty" bson:"badgeNumber,omitempty"`
	Specialization string  `json:"specialization,omitempty" bson:"specialization,omitempty"`
	Rating         float64 `json:"rating,omitempty" bson:"rating,omitempty"`
	TotalCases     int     `json:"total_cases,omitempty" bson:"totalCases,omitempty"`

	Gender               string     `json:"gender,omitempty" bson:"gender,omitempty"`
	Phone                string     `json:"phone,omitempty" bson:"phone,omitempty"`
	IDType               string     `json:"id_type,omitempty" bson:"idType,omitempty"`
	IDNumber             string     `json:"id_number,omitempty" bson:"idNumber,omitempty"`
	DOB                  *time.Time `json:"dob,omitempty" bson:"dob,omitempty"`
	BloodGroup           string     `json:"blood_group,omitempty" bson:"bloodGroup,omitempty"`
	Address              string     `json:"address,omitempty" bson:"address,omitempty"`
	EmergencyMedicalNote string     `json:"emergency_medical_note,omitempty" bson:"emergencyMedicalNote,omitempty"`
	ProfilePicture       string     `json:"profile_picture,omitempty" bson:"profilePicture,omitempty"`

	// Last known position, used for responder assignment
	Latitude  *float64 `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty" bson:"longitude,omitempty"`
	Location  string   `json:"location,omitempty" bson:"location,omitempty"`

	// Duress PIN for alert deactivation, never serialized
	DeactivationPIN string `json:"-" bson:"deactivationPin"`

	// FCM registration token of the user's current device
	DeviceToken string `json:"-" bson:"deviceToken,omitempty"`

	IsActive   bool      `json:"is_active" bson:"isActive"`
	LastActive time.Time `json:"last_active" bson:"lastActive"`
	CreatedAt  time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updated_at" bson:"updatedAt"`
}

// User type constants
const (
	UserTypeUser       = "user"
	UserTypeAgent      = "agent"
	UserTypeController = "controller"
	UserTypeAdmin      = "admin"
)

// Responder type constants
const (
	ResponderTypePolice    = "police"
	ResponderTypeMedical   = "medical"
	ResponderTypeFire      = "fire"
	ResponderTypeSecurity  = "security"
	ResponderTypeVolunteer = "volunteer"
)

// IsResponder reports whether the account is eligible for emergency assignment.
func (u *User) IsResponder() bool {
	return u.UserType == UserTypeAgent
}

// ResponderStatus tracks an agent's availability separately from the profile
// document so assignment and release can flip it without touching identity data.
type ResponderStatus struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ResponderID primitive.ObjectID `json:"responder_id" bson:"responderId"`
	Status      string             `json:"status" bson:"status"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updatedAt"`
}

// Availability constants
const (
	AvailabilityAvailable = "available"
	AvailabilityBusy      = "busy"
	AvailabilityOffline   = "offline"
)

// ResponderView is the directory representation of an agent.
type ResponderView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	AgentID        string   `json:"agent_id"`
	ResponderType  string   `json:"responder_type"`
	Status         string   `json:"status"`
	BadgeNumber    string   `json:"badge_number,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	Specialization string   `json:"specialization,omitempty"`
	Rating         float64  `json:"rating,omitempty"`
	TotalCases     int      `json:"total_cases,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	AssignedAlert  string   `json:"assigned_alert,omitempty"`
}

type UpdateResponderAvailabilityRequest struct {
	Status string `json:"status" validate:"required,oneof=available busy offline"`
}
