package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trusted contact registered by a user. At most one primary contact per user;
// the repository enforces it with a demote-then-promote update.
type EmergencyContact struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"-" bson:"userId"`
	Name               string             `json:"name" bson:"name"`
	Phone              string             `json:"phone" bson:"phone"`
	Email              string             `json:"email,omitempty" bson:"email,omitempty"`
	Relationship       string             `json:"relationship" bson:"relationship"`
	IsEmergencyContact bool               `json:"is_emergency_contact" bson:"isEmergencyContact"`
	IsPrimary          bool               `json:"is_primary" bson:"isPrimary"`
	CreatedAt          time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updatedAt"`
}

// Relationship constants
const (
	RelationshipFamily           = "family"
	RelationshipFriend           = "friend"
	RelationshipColleague        = "colleague"
	RelationshipNeighbor         = "neighbor"
	RelationshipEmergencyService = "emergency_service"
	RelationshipOther            = "other"
)

var relationshipEmojis = map[string]string{
	RelationshipFamily:           "👨‍👩‍👧‍👦",
	RelationshipFriend:           "👥",
	RelationshipColleague:        "💼",
	RelationshipNeighbor:         "🏠",
	RelationshipEmergencyService: "🚨",
	RelationshipOther:            "👤",
}

// Photo returns the emoji shown for the contact's relationship.
func (c *EmergencyContact) Photo() string {
	if emoji, ok := relationshipEmojis[c.Relationship]; ok {
		return emoji
	}
	return "👤"
}

type CreateContactRequest struct {
	Name               string `json:"name" validate:"required,min=1,max=255"`
	Phone              string `json:"phone" validate:"required,phone"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	Relationship       string `json:"relationship" validate:"omitempty,oneof=family friend colleague neighbor emergency_service other"`
	IsEmergencyContact *bool  `json:"is_emergency_contact,omitempty"`
	IsPrimary          bool   `json:"is_primary"`
}

type UpdateContactRequest struct {
	Name               string `json:"name,omitempty"`
	Phone              string `json:"phone,omitempty" validate:"omitempty,phone"`
	Email              string `json:"email,omitempty" validate:"omitempty,email"`
	Relationship       string `json:"relationship,omitempty" validate:"omitempty,oneof=family friend colleague neighbor emergency_service other"`
	IsEmergencyContact *bool  `json:"is_emergency_contact,omitempty"`
	IsPrimary          *bool  `json:"is_primary,omitempty"`
}

type PhoneLookupRequest struct {
	Phone string `json:"phone" validate:"required,max=20"`
}

type PhoneLookupResponse struct {
	Found        bool        `json:"found"`
	User         *UserLookup `json:"user,omitempty"`
	AlreadyAdded bool        `json:"already_added,omitempty"`
	ExactMatch   bool        `json:"exact_match,omitempty"`
	Message      string      `json:"message,omitempty"`
}

type UserLookup struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ContactView struct {
	EmergencyContact
	Photo string `json:"photo"`
}

type UserEmergencyInfo struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Email         string        `json:"email"`
	Contacts      []ContactView `json:"emergency_contacts"`
	ContactsCount int           `json:"emergency_contacts_count"`
}
