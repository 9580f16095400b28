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

type ContactRepository struct {
	collection *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{
		collection: db.Collection("emergency_contacts"),
	}
}

func (cr *ContactRepository) Create(ctx context.Context, contact *models.EmergencyContact) error {
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()

	_, err := cr.collection.InsertOne(ctx, contact)
	if mongo.IsDuplicateKeyError(err) {
		return errors.New("contact with this phone already exists")
	}
	return err
}

func (cr *ContactRepository) GetByID(ctx context.Context, id string) (*models.EmergencyContact, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid contact ID")
	}

	var contact models.EmergencyContact
	err = cr.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("contact not found")
		}
		return nil, err
	}

	return &contact, nil
}

func (cr *ContactRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]models.EmergencyContact, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "isPrimary", Value: -1},
		{Key: "createdAt", Value: 1},
	})

	cursor, err := cr.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []models.EmergencyContact
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}

	return contacts, nil
}

func (cr *ContactRepository) GetEmergencyContacts(ctx context.Context, userID primitive.ObjectID) ([]models.EmergencyContact, error) {
	cursor, err := cr.collection.Find(ctx, bson.M{
		"userId":             userID,
		"isEmergencyContact": true,
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contacts []models.EmergencyContact
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, err
	}

	return contacts, nil
}

func (cr *ContactRepository) GetByUserAndPhone(ctx context.Context, userID primitive.ObjectID, phone string) (*models.EmergencyContact, error) {
	var contact models.EmergencyContact
	err := cr.collection.FindOne(ctx, bson.M{"userId": userID, "phone": phone}).Decode(&contact)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("contact not found")
		}
		return nil, err
	}

	return &contact, nil
}

func (cr *ContactRepository) Update(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid contact ID")
	}

	update["updatedAt"] = time.Now()

	result, err := cr.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("contact not found")
	}

	return nil
}

// SetPrimary demotes the current primary contact before promoting the
// target, keeping the partial unique index satisfied.
func (cr *ContactRepository) SetPrimary(ctx context.Context, userID primitive.ObjectID, contactID primitive.ObjectID) error {
	_, err := cr.collection.UpdateMany(
		ctx,
		bson.M{"userId": userID, "isPrimary": true},
		bson.M{"$set": bson.M{"isPrimary": false, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}

	result, err := cr.collection.UpdateOne(
		ctx,
		bson.M{"_id": contactID, "userId": userID},
		bson.M{"$set": bson.M{"isPrimary": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("contact not found")
	}

	return nil
}

func (cr *ContactRepository) Delete(ctx context.Context, id string, userID primitive.ObjectID) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid contact ID")
	}

	result, err := cr.collection.DeleteOne(ctx, bson.M{"_id": objectID, "userId": userID})
	if err != nil {
		return err
	}

	if result.DeletedCount == 0 {
		return errors.New("contact not found")
	}

	return nil
}

func (cr *ContactRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return cr.collection.CountDocuments(ctx, bson.M{"userId": userID})
}
