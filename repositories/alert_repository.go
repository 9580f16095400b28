package repositories

import (
	"context"
	"errors"
	"time"

	"aegis/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateResponse = errors.New("responder already assigned to alert")

type AlertRepository struct {
	alerts    *mongo.Collection
	locations *mongo.Collection
	media     *mongo.Collection
	responses *mongo.Collection
	attempts  *mongo.Collection
}

func NewAlertRepository(db *mongo.Database) *AlertRepository {
	return &AlertRepository{
		alerts:    db.Collection("emergency_alerts"),
		locations: db.Collection("location_updates"),
		media:     db.Collection("media_captures"),
		responses: db.Collection("emergency_responses"),
		attempts:  db.Collection("deactivation_attempts"),
	}
}

// WithTransaction runs fn inside a mongo transaction. Deployments
// without session support (standalone mongod) run fn directly.
func (ar *AlertRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	session, err := ar.alerts.Database().Client().StartSession()
	if err != nil {
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (ar *AlertRepository) Create(ctx context.Context, alert *models.EmergencyAlert) error {
	alert.ID = primitive.NewObjectID()
	alert.ActivatedAt = time.Now()
	alert.LastUpdated = time.Now()

	_, err := ar.alerts.InsertOne(ctx, alert)
	return err
}

func (ar *AlertRepository) GetByAlertID(ctx context.Context, alertID string) (*models.EmergencyAlert, error) {
	var alert models.EmergencyAlert
	err := ar.alerts.FindOne(ctx, bson.M{"alertId": alertID}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("alert not found")
		}
		return nil, err
	}

	return &alert, nil
}

func (ar *AlertRepository) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyAlert, error) {
	var alert models.EmergencyAlert
	err := ar.alerts.FindOne(ctx, bson.M{"_id": id}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("alert not found")
		}
		return nil, err
	}

	return &alert, nil
}

// GetActiveByUser returns the user's currently active alert, if any.
func (ar *AlertRepository) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*models.EmergencyAlert, error) {
	var alert models.EmergencyAlert
	err := ar.alerts.FindOne(ctx, bson.M{
		"userId": userID,
		"status": models.AlertStatusActive,
	}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &alert, nil
}

func (ar *AlertRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]models.EmergencyAlert, int64, error) {
	filter := bson.M{"userId": userID}

	total, err := ar.alerts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize)).
		SetSort(bson.M{"activatedAt": -1})

	cursor, err := ar.alerts.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var alerts []models.EmergencyAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, 0, err
	}

	return alerts, total, nil
}

func (ar *AlertRepository) GetActive(ctx context.Context) ([]models.EmergencyAlert, error) {
	opts := options.Find().SetSort(bson.M{"activatedAt": -1})
	cursor, err := ar.alerts.Find(ctx, bson.M{"status": models.AlertStatusActive}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var alerts []models.EmergencyAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

// GetResolvedSince returns alerts resolved or cancelled within the
// window, used to build avoid zones for safe routing.
func (ar *AlertRepository) GetResolvedSince(ctx context.Context, since time.Time) ([]models.EmergencyAlert, error) {
	cursor, err := ar.alerts.Find(ctx, bson.M{
		"status":      bson.M{"$in": []string{models.AlertStatusActive, models.AlertStatusResolved}},
		"activatedAt": bson.M{"$gte": since},
		"latitude":    bson.M{"$ne": nil},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var alerts []models.EmergencyAlert
	if err := cursor.All(ctx, &alerts); err != nil {
		return nil, err
	}

	return alerts, nil
}

func (ar *AlertRepository) Update(ctx context.Context, alertID string, update bson.M) error {
	update["lastUpdated"] = time.Now()

	result, err := ar.alerts.UpdateOne(
		ctx,
		bson.M{"alertId": alertID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("alert not found")
	}

	return nil
}

func (ar *AlertRepository) IncrementDeactivationAttempts(ctx context.Context, alertID string) (int, error) {
	var alert models.EmergencyAlert
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := ar.alerts.FindOneAndUpdate(
		ctx,
		bson.M{"alertId": alertID},
		bson.M{
			"$inc": bson.M{"deactivationAttempts": 1},
			"$set": bson.M{"lastUpdated": time.Now()},
		},
		opts,
	).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, errors.New("alert not found")
		}
		return 0, err
	}

	return alert.DeactivationAttempts, nil
}

func (ar *AlertRepository) AddLocationUpdate(ctx context.Context, update *models.LocationUpdate) error {
	update.ID = primitive.NewObjectID()
	if update.RecordedAt.IsZero() {
		update.RecordedAt = time.Now()
	}

	_, err := ar.locations.InsertOne(ctx, update)
	return err
}

func (ar *AlertRepository) GetLocationUpdates(ctx context.Context, alertID primitive.ObjectID, limit int) ([]models.LocationUpdate, error) {
	opts := options.Find().SetSort(bson.M{"recordedAt": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := ar.locations.Find(ctx, bson.M{"alertId": alertID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var updates []models.LocationUpdate
	if err := cursor.All(ctx, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

func (ar *AlertRepository) AddMediaCapture(ctx context.Context, capture *models.MediaCapture) error {
	capture.ID = primitive.NewObjectID()
	if capture.CapturedAt.IsZero() {
		capture.CapturedAt = time.Now()
	}

	_, err := ar.media.InsertOne(ctx, capture)
	return err
}

func (ar *AlertRepository) GetMediaCaptures(ctx context.Context, alertID primitive.ObjectID) ([]models.MediaCapture, error) {
	opts := options.Find().SetSort(bson.M{"capturedAt": 1})
	cursor, err := ar.media.Find(ctx, bson.M{"alertId": alertID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var captures []models.MediaCapture
	if err := cursor.All(ctx, &captures); err != nil {
		return nil, err
	}

	return captures, nil
}

func (ar *AlertRepository) CreateResponse(ctx context.Context, response *models.EmergencyResponse) error {
	response.ID = primitive.NewObjectID()
	if response.NotifiedAt.IsZero() {
		response.NotifiedAt = time.Now()
	}

	_, err := ar.responses.InsertOne(ctx, response)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateResponse
	}
	return err
}

func (ar *AlertRepository) GetResponseByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyResponse, error) {
	var response models.EmergencyResponse
	err := ar.responses.FindOne(ctx, bson.M{"_id": id}).Decode(&response)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("response not found")
		}
		return nil, err
	}

	return &response, nil
}

func (ar *AlertRepository) GetResponse(ctx context.Context, alertID, responderID primitive.ObjectID) (*models.EmergencyResponse, error) {
	var response models.EmergencyResponse
	err := ar.responses.FindOne(ctx, bson.M{
		"alertId":     alertID,
		"responderId": responderID,
	}).Decode(&response)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("response not found")
		}
		return nil, err
	}

	return &response, nil
}

func (ar *AlertRepository) GetResponses(ctx context.Context, alertID primitive.ObjectID) ([]models.EmergencyResponse, error) {
	opts := options.Find().SetSort(bson.M{"notifiedAt": 1})
	cursor, err := ar.responses.Find(ctx, bson.M{"alertId": alertID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []models.EmergencyResponse
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}

	return responses, nil
}

func (ar *AlertRepository) GetResponsesByResponder(ctx context.Context, responderID primitive.ObjectID, activeOnly bool) ([]models.EmergencyResponse, error) {
	filter := bson.M{"responderId": responderID}
	if activeOnly {
		filter["status"] = bson.M{"$nin": []string{
			models.ResponseStatusCompleted,
			models.ResponseStatusCancelled,
		}}
	}

	opts := options.Find().SetSort(bson.M{"notifiedAt": -1})
	cursor, err := ar.responses.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var responses []models.EmergencyResponse
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, err
	}

	return responses, nil
}

func (ar *AlertRepository) UpdateResponse(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := ar.responses.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("response not found")
	}

	return nil
}

// CancelOpenResponses marks every non-terminal response on the alert
// cancelled. Returns the responder IDs affected so their availability
// can be released.
func (ar *AlertRepository) CancelOpenResponses(ctx context.Context, alertID primitive.ObjectID) ([]primitive.ObjectID, error) {
	filter := bson.M{
		"alertId": alertID,
		"status": bson.M{"$nin": []string{
			models.ResponseStatusCompleted,
			models.ResponseStatusCancelled,
		}},
	}

	cursor, err := ar.responses.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var open []models.EmergencyResponse
	if err := cursor.All(ctx, &open); err != nil {
		return nil, err
	}

	if len(open) == 0 {
		return nil, nil
	}

	now := time.Now()
	_, err = ar.responses.UpdateMany(ctx, filter, bson.M{"$set": bson.M{
		"status":      models.ResponseStatusCancelled,
		"cancelledAt": now,
	}})
	if err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(open))
	for _, r := range open {
		ids = append(ids, r.ResponderID)
	}

	return ids, nil
}

func (ar *AlertRepository) CountOpenResponses(ctx context.Context, alertID primitive.ObjectID) (int64, error) {
	return ar.responses.CountDocuments(ctx, bson.M{
		"alertId": alertID,
		"status": bson.M{"$nin": []string{
			models.ResponseStatusCompleted,
			models.ResponseStatusCancelled,
		}},
	})
}

func (ar *AlertRepository) RecordDeactivationAttempt(ctx context.Context, attempt *models.DeactivationAttempt) error {
	attempt.ID = primitive.NewObjectID()
	attempt.AttemptedAt = time.Now()

	_, err := ar.attempts.InsertOne(ctx, attempt)
	return err
}

func (ar *AlertRepository) GetDeactivationAttempts(ctx context.Context, alertID primitive.ObjectID) ([]models.DeactivationAttempt, error) {
	opts := options.Find().SetSort(bson.M{"attemptedAt": 1})
	cursor, err := ar.attempts.Find(ctx, bson.M{"alertId": alertID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []models.DeactivationAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}

	return attempts, nil
}

func (ar *AlertRepository) GetStatistics(ctx context.Context) (map[string]int64, error) {
	stats := make(map[string]int64)
	for _, status := range []string{
		models.AlertStatusActive,
		models.AlertStatusCancelled,
		models.AlertStatusResolved,
	} {
		count, err := ar.alerts.CountDocuments(ctx, bson.M{"status": status})
		if err != nil {
			return nil, err
		}
		stats[status] = count
	}

	return stats, nil
}
