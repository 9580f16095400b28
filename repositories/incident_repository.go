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

type IncidentRepository struct {
	reports *mongo.Collection
	media   *mongo.Collection
	updates *mongo.Collection
}

func NewIncidentRepository(db *mongo.Database) *IncidentRepository {
	return &IncidentRepository{
		reports: db.Collection("incident_reports"),
		media:   db.Collection("incident_media"),
		updates: db.Collection("incident_updates"),
	}
}

func (ir *IncidentRepository) Create(ctx context.Context, report *models.IncidentReport) error {
	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now()
	report.UpdatedAt = time.Now()

	_, err := ir.reports.InsertOne(ctx, report)
	return err
}

func (ir *IncidentRepository) GetByID(ctx context.Context, id string) (*models.IncidentReport, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid incident ID")
	}

	var report models.IncidentReport
	err = ir.reports.FindOne(ctx, bson.M{"_id": objectID}).Decode(&report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("incident not found")
		}
		return nil, err
	}

	return &report, nil
}

func (ir *IncidentRepository) List(ctx context.Context, filter bson.M, page, pageSize int) ([]models.IncidentReport, int64, error) {
	total, err := ir.reports.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := ir.reports.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var reports []models.IncidentReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (ir *IncidentRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := ir.reports.UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("incident not found")
	}

	return nil
}

func (ir *IncidentRepository) AddMedia(ctx context.Context, media *models.IncidentMedia) error {
	media.ID = primitive.NewObjectID()
	media.UploadedAt = time.Now()

	_, err := ir.media.InsertOne(ctx, media)
	return err
}

func (ir *IncidentRepository) GetMedia(ctx context.Context, incidentID primitive.ObjectID) ([]models.IncidentMedia, error) {
	cursor, err := ir.media.Find(ctx, bson.M{"incidentId": incidentID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var media []models.IncidentMedia
	if err := cursor.All(ctx, &media); err != nil {
		return nil, err
	}

	return media, nil
}

func (ir *IncidentRepository) AddUpdate(ctx context.Context, update *models.IncidentUpdate) error {
	update.ID = primitive.NewObjectID()
	update.CreatedAt = time.Now()

	_, err := ir.updates.InsertOne(ctx, update)
	return err
}

func (ir *IncidentRepository) GetUpdates(ctx context.Context, incidentID primitive.ObjectID) ([]models.IncidentUpdate, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": 1})
	cursor, err := ir.updates.Find(ctx, bson.M{"incidentId": incidentID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var updates []models.IncidentUpdate
	if err := cursor.All(ctx, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

func (ir *IncidentRepository) GetStatistics(ctx context.Context) (*models.IncidentStatistics, error) {
	stats := &models.IncidentStatistics{
		ByType:   make(map[string]int64),
		ByStatus: make(map[string]int64),
	}

	total, err := ir.reports.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	stats.Total = total

	typeCursor, err := ir.reports.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$incidentType", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer typeCursor.Close(ctx)

	var typeRows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := typeCursor.All(ctx, &typeRows); err != nil {
		return nil, err
	}
	for _, row := range typeRows {
		stats.ByType[row.ID] = row.Count
	}

	statusCursor, err := ir.reports.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer statusCursor.Close(ctx)

	var statusRows []struct {
		ID    string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := statusCursor.All(ctx, &statusRows); err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.ID] = row.Count
	}

	recent, err := ir.reports.CountDocuments(ctx, bson.M{
		"createdAt": bson.M{"$gte": time.Now().AddDate(0, 0, -30)},
	})
	if err != nil {
		return nil, err
	}
	stats.SubmittedLast = recent

	return stats, nil
}
