package services

import (
	"context"

	"aegis/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store interfaces the alert, responder, and notification services
// depend on. The mongo-backed repositories satisfy them; tests
// substitute in-memory fakes.

type AlertStore interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, alert *models.EmergencyAlert) error
	GetByAlertID(ctx context.Context, alertID string) (*models.EmergencyAlert, error)
	GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyAlert, error)
	GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*models.EmergencyAlert, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]models.EmergencyAlert, int64, error)
	GetActive(ctx context.Context) ([]models.EmergencyAlert, error)
	Update(ctx context.Context, alertID string, update bson.M) error
	IncrementDeactivationAttempts(ctx context.Context, alertID string) (int, error)
	RecordDeactivationAttempt(ctx context.Context, attempt *models.DeactivationAttempt) error
	AddLocationUpdate(ctx context.Context, update *models.LocationUpdate) error
	GetLocationUpdates(ctx context.Context, alertID primitive.ObjectID, limit int) ([]models.LocationUpdate, error)
	AddMediaCapture(ctx context.Context, capture *models.MediaCapture) error
	GetMediaCaptures(ctx context.Context, alertID primitive.ObjectID) ([]models.MediaCapture, error)
	CreateResponse(ctx context.Context, response *models.EmergencyResponse) error
	GetResponseByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyResponse, error)
	GetResponses(ctx context.Context, alertID primitive.ObjectID) ([]models.EmergencyResponse, error)
	GetResponsesByResponder(ctx context.Context, responderID primitive.ObjectID, activeOnly bool) ([]models.EmergencyResponse, error)
	UpdateResponse(ctx context.Context, id primitive.ObjectID, update bson.M) error
	CancelOpenResponses(ctx context.Context, alertID primitive.ObjectID) ([]primitive.ObjectID, error)
	CountOpenResponses(ctx context.Context, alertID primitive.ObjectID) (int64, error)
	GetStatistics(ctx context.Context) (map[string]int64, error)
}

type UserStore interface {
	GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByRole(ctx context.Context, role string) ([]models.User, error)
	GetActiveAgents(ctx context.Context, responderType string) ([]models.User, error)
	GetAvailability(ctx context.Context, responderID primitive.ObjectID) (string, error)
	SetAvailability(ctx context.Context, responderID primitive.ObjectID, status string) error
	GetAvailableResponderIDs(ctx context.Context) (map[primitive.ObjectID]bool, error)
}

type ContactStore interface {
	GetEmergencyContacts(ctx context.Context, userID primitive.ObjectID) ([]models.EmergencyContact, error)
}

type NotificationStore interface {
	Create(ctx context.Context, notification *models.EmergencyNotification) error
	GetByUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page, pageSize int) ([]models.EmergencyNotification, int64, error)
	MarkRead(ctx context.Context, id string, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
