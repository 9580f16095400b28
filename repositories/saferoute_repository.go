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

type SafeRouteRepository struct {
	locations *mongo.Collection
}

func NewSafeRouteRepository(db *mongo.Database) *SafeRouteRepository {
	return &SafeRouteRepository{
		locations: db.Collection("safe_locations"),
	}
}

func (sr *SafeRouteRepository) CreateLocation(ctx context.Context, location *models.SafeLocation) error {
	location.ID = primitive.NewObjectID()
	location.CreatedAt = time.Now()

	_, err := sr.locations.InsertOne(ctx, location)
	return err
}

func (sr *SafeRouteRepository) GetLocationsByUser(ctx context.Context, userID primitive.ObjectID) ([]models.SafeLocation, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	cursor, err := sr.locations.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var locations []models.SafeLocation
	if err := cursor.All(ctx, &locations); err != nil {
		return nil, err
	}

	return locations, nil
}

func (sr *SafeRouteRepository) DeleteLocation(ctx context.Context, id string, userID primitive.ObjectID) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid location ID")
	}

	result, err := sr.locations.DeleteOne(ctx, bson.M{"_id": objectID, "userId": userID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return errors.New("location not found")
	}

	return nil
}
