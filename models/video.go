package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoEvidence is a silently captured video record. Only controllers may
// change its review status.
type VideoEvidence struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	UserID     primitive.ObjectID  `json:"user_id" bson:"userId"`
	AlertID    *primitive.ObjectID `json:"alert_id,omitempty" bson:"alertId,omitempty"`
	FileURL    string              `json:"file_url" bson:"fileUrl"`
	FileName   string              `json:"file_name" bson:"fileName"`
	FileSize   int64               `json:"file_size" bson:"fileSize"`
	Duration   int                 `json:"duration,omitempty" bson:"duration,omitempty"`
	Latitude   *float64            `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude  *float64            `json:"longitude,omitempty" bson:"longitude,omitempty"`
	Status     string              `json:"status" bson:"status"`
	CapturedAt time.Time           `json:"captured_at" bson:"capturedAt"`
	CreatedAt  time.Time           `json:"created_at" bson:"createdAt"`
}

// Video evidence status constants
const (
	VideoStatusPendingReview = "pending_review"
	VideoStatusReviewed      = "reviewed"
	VideoStatusFlagged       = "flagged"
	VideoStatusArchived      = "archived"
)

type UploadVideoRequest struct {
	AlertID    string    `form:"alert_id,omitempty"`
	Duration   int       `form:"duration,omitempty"`
	Latitude   *float64  `form:"latitude,omitempty"`
	Longitude  *float64  `form:"longitude,omitempty"`
	CapturedAt time.Time `form:"captured_at,omitempty"`
}

type UpdateVideoStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending_review reviewed flagged archived"`
}
