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

type CheckInRepository struct {
	checkins *mongo.Collection
	settings *mongo.Collection
}

func NewCheckInRepository(db *mongo.Database) *CheckInRepository {
	return &CheckInRepository{
		checkins: db.Collection("safety_checkins"),
		settings: db.Collection("safety_check_settings"),
	}
}

func (cr *CheckInRepository) Create(ctx context.Context, checkin *models.SafetyCheckIn) error {
	checkin.ID = primitive.NewObjectID()
	checkin.CreatedAt = time.Now()

	_, err := cr.checkins.InsertOne(ctx, checkin)
	return err
}

func (cr *CheckInRepository) GetByID(ctx context.Context, id string) (*models.SafetyCheckIn, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid check-in ID")
	}

	var checkin models.SafetyCheckIn
	err = cr.checkins.FindOne(ctx, bson.M{"_id": objectID}).Decode(&checkin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("check-in not found")
		}
		return nil, err
	}

	return &checkin, nil
}

func (cr *CheckInRepository) GetByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]models.SafetyCheckIn, int64, error) {
	filter := bson.M{"userId": userID}

	total, err := cr.checkins.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize)).
		SetSort(bson.M{"scheduledAt": -1})

	cursor, err := cr.checkins.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var checkins []models.SafetyCheckIn
	if err := cursor.All(ctx, &checkins); err != nil {
		return nil, 0, err
	}

	return checkins, total, nil
}

// GetPendingBefore returns pending check-ins whose scheduled time falls
// before the cutoff. Used by the overdue sweep.
func (cr *CheckInRepository) GetPendingBefore(ctx context.Context, cutoff time.Time) ([]models.SafetyCheckIn, error) {
	cursor, err := cr.checkins.Find(ctx, bson.M{
		"status":      models.CheckInStatusPending,
		"scheduledAt": bson.M{"$lte": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var checkins []models.SafetyCheckIn
	if err := cursor.All(ctx, &checkins); err != nil {
		return nil, err
	}

	return checkins, nil
}

func (cr *CheckInRepository) GetLatestPending(ctx context.Context, userID primitive.ObjectID) (*models.SafetyCheckIn, error) {
	var checkin models.SafetyCheckIn
	opts := options.FindOne().SetSort(bson.M{"scheduledAt": -1})
	err := cr.checkins.FindOne(ctx, bson.M{
		"userId": userID,
		"status": models.CheckInStatusPending,
	}, opts).Decode(&checkin)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &checkin, nil
}

func (cr *CheckInRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	result, err := cr.checkins.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("check-in not found")
	}

	return nil
}

// MarkMissed transitions a pending check-in to missed. Returns false
// when the check-in was answered concurrently.
func (cr *CheckInRepository) MarkMissed(ctx context.Context, id primitive.ObjectID) (bool, error) {
	result, err := cr.checkins.UpdateOne(
		ctx,
		bson.M{"_id": id, "status": models.CheckInStatusPending},
		bson.M{"$set": bson.M{"status": models.CheckInStatusMissed}},
	)
	if err != nil {
		return false, err
	}

	return result.ModifiedCount > 0, nil
}

func (cr *CheckInRepository) GetSettings(ctx context.Context, userID primitive.ObjectID) (*models.SafetyCheckSettings, error) {
	var settings models.SafetyCheckSettings
	err := cr.settings.FindOne(ctx, bson.M{"userId": userID}).Decode(&settings)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &settings, nil
}

func (cr *CheckInRepository) UpsertSettings(ctx context.Context, settings *models.SafetyCheckSettings) error {
	settings.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	_, err := cr.settings.UpdateOne(
		ctx,
		bson.M{"userId": settings.UserID},
		bson.M{"$set": settings},
		opts,
	)
	return err
}
