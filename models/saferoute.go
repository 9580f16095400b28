package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SafeLocation is a user-saved place used as a quick routing destination.
type SafeLocation struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"-" bson:"userId"`
	Name      string             `json:"name" bson:"name"`
	Address   string             `json:"address,omitempty" bson:"address,omitempty"`
	Latitude  float64            `json:"latitude" bson:"latitude"`
	Longitude float64            `json:"longitude" bson:"longitude"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}

type CreateSafeLocationRequest struct {
	Name      string  `json:"name" validate:"required,min=1,max=100"`
	Address   string  `json:"address,omitempty"`
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

type SafeRouteRequest struct {
	OriginLatitude       float64 `json:"origin_latitude" validate:"latitude"`
	OriginLongitude      float64 `json:"origin_longitude" validate:"longitude"`
	DestinationLatitude  float64 `json:"destination_latitude" validate:"latitude"`
	DestinationLongitude float64 `json:"destination_longitude" validate:"longitude"`
	// Radius in meters around past emergencies to avoid
	AvoidRadius float64 `json:"avoid_radius,omitempty" validate:"omitempty,min=50,max=5000"`
}

type RoutePoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SafeRouteResponse struct {
	Points           []RoutePoint `json:"points"`
	DistanceKM       float64      `json:"distance_km"`
	DurationMinutes  float64      `json:"duration_minutes"`
	AvoidedIncidents int          `json:"avoided_incidents"`
	Provider         string       `json:"provider"`
}
