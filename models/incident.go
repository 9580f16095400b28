package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IncidentReport is a free-text report with a moderation workflow.
type IncidentReport struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"user_id" bson:"userId"`
	IncidentType string             `json:"incident_type" bson:"incidentType"`
	Title        string             `json:"title" bson:"title"`
	Description  string             `json:"description" bson:"description"`
	IncidentDate time.Time          `json:"incident_date" bson:"incidentDate"`
	Latitude     *float64           `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude    *float64           `json:"longitude,omitempty" bson:"longitude,omitempty"`
	Address      string             `json:"address,omitempty" bson:"address,omitempty"`
	Status       string             `json:"status" bson:"status"`
	IsAnonymous  bool               `json:"is_anonymous" bson:"isAnonymous"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

// Incident type constants
const (
	IncidentTypeTheft      = "theft"
	IncidentTypeAssault    = "assault"
	IncidentTypeHarassment = "harassment"
	IncidentTypeVandalism  = "vandalism"
	IncidentTypeAccident   = "accident"
	IncidentTypeSuspicious = "suspicious_activity"
	IncidentTypeOther      = "other"
)

// Incident status workflow
const (
	IncidentStatusSubmitted     = "submitted"
	IncidentStatusUnderReview   = "under_review"
	IncidentStatusInvestigating = "investigating"
	IncidentStatusResolved      = "resolved"
	IncidentStatusDismissed     = "dismissed"
)

// IncidentMedia is a file attached to a report.
type IncidentMedia struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	IncidentID primitive.ObjectID `json:"-" bson:"incidentId"`
	MediaType  string             `json:"media_type" bson:"mediaType"`
	FileURL    string             `json:"file_url" bson:"fileUrl"`
	FileName   string             `json:"file_name" bson:"fileName"`
	FileSize   int64              `json:"file_size" bson:"fileSize"`
	UploadedAt time.Time          `json:"uploaded_at" bson:"uploadedAt"`
}

// IncidentUpdate records a status change made by a controller.
type IncidentUpdate struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	IncidentID primitive.ObjectID `json:"-" bson:"incidentId"`
	UpdatedBy  primitive.ObjectID `json:"updated_by" bson:"updatedBy"`
	OldStatus  string             `json:"old_status" bson:"oldStatus"`
	NewStatus  string             `json:"new_status" bson:"newStatus"`
	Notes      string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt  time.Time          `json:"created_at" bson:"createdAt"`
}

type SubmitIncidentRequest struct {
	IncidentType string    `json:"incident_type" validate:"required,oneof=theft assault harassment vandalism accident suspicious_activity other"`
	Title        string    `json:"title" validate:"required,min=3,max=255"`
	Description  string    `json:"description" validate:"required,min=10"`
	IncidentDate time.Time `json:"incident_date" validate:"required"`
	Latitude     *float64  `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64  `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Address      string    `json:"address,omitempty"`
	IsAnonymous  bool      `json:"is_anonymous"`
}

type UpdateIncidentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=submitted under_review investigating resolved dismissed"`
	Notes  string `json:"notes,omitempty"`
}

type IncidentStatistics struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
	ByType        map[string]int64 `json:"by_type"`
	SubmittedLast int64            `json:"submitted_last_30_days"`
}
