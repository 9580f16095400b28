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

type VideoRepository struct {
	collection *mongo.Collection
}

func NewVideoRepository(db *mongo.Database) *VideoRepository {
	return &VideoRepository{
		collection: db.Collection("video_evidence"),
	}
}

func (vr *VideoRepository) Create(ctx context.Context, video *models.VideoEvidence) error {
	video.ID = primitive.NewObjectID()
	video.CreatedAt = time.Now()

	_, err := vr.collection.InsertOne(ctx, video)
	return err
}

func (vr *VideoRepository) GetByID(ctx context.Context, id string) (*models.VideoEvidence, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid video ID")
	}

	var video models.VideoEvidence
	err = vr.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("video not found")
		}
		return nil, err
	}

	return &video, nil
}

func (vr *VideoRepository) List(ctx context.Context, filter bson.M, page, pageSize int) ([]models.VideoEvidence, int64, error) {
	total, err := vr.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize)).
		SetSort(bson.M{"capturedAt": -1})

	cursor, err := vr.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var videos []models.VideoEvidence
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, 0, err
	}

	return videos, total, nil
}

func (vr *VideoRepository) GetByAlert(ctx context.Context, alertID primitive.ObjectID) ([]models.VideoEvidence, error) {
	opts := options.Find().SetSort(bson.M{"capturedAt": 1})
	cursor, err := vr.collection.Find(ctx, bson.M{"alertId": alertID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var videos []models.VideoEvidence
	if err := cursor.All(ctx, &videos); err != nil {
		return nil, err
	}

	return videos, nil
}

func (vr *VideoRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := vr.collection.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("video not found")
	}

	return nil
}

func (vr *VideoRepository) Delete(ctx context.Context, id primitive.ObjectID, userID primitive.ObjectID) error {
	result, err := vr.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return errors.New("video not found")
	}

	return nil
}
