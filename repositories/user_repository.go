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

type UserRepository struct {
	collection *mongo.Collection
	statusCol  *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
		statusCol:  db.Collection("responder_status"),
	}
}

func (ur *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	user.IsActive = true

	_, err := ur.collection.InsertOne(ctx, user)
	return err
}

func (ur *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}

	var user models.User
	err = ur.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("user not found")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := ur.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("user not found")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := ur.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("user not found")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) GetByAgentID(ctx context.Context, agentID string) (*models.User, error) {
	var user models.User
	err := ur.collection.FindOne(ctx, bson.M{"agentId": agentID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("agent not found")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := ur.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("user not found")
		}
		return nil, err
	}

	return &user, nil
}

func (ur *UserRepository) Update(ctx context.Context, id string, update bson.M) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid user ID")
	}

	update["updatedAt"] = time.Now()

	result, err := ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": update},
	)
	if err != nil {
		return err
	}

	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}

	return nil
}

func (ur *UserRepository) UpdateLastActive(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid user ID")
	}

	_, err = ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"lastActive": time.Now(),
			"updatedAt":  time.Now(),
		}},
	)
	return err
}

func (ur *UserRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid user ID")
	}

	_, err = ur.collection.UpdateOne(
		ctx,
		bson.M{"_id": objectID},
		bson.M{"$set": bson.M{
			"latitude":   lat,
			"longitude":  lng,
			"lastActive": time.Now(),
			"updatedAt":  time.Now(),
		}},
	)
	return err
}

func (ur *UserRepository) GetByRole(ctx context.Context, role string) ([]models.User, error) {
	cursor, err := ur.collection.Find(ctx, bson.M{"userType": role, "isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

// GetActiveAgents returns responders of the given type with known
// coordinates, or every active agent when responderType is empty.
func (ur *UserRepository) GetActiveAgents(ctx context.Context, responderType string) ([]models.User, error) {
	filter := bson.M{"userType": models.UserTypeAgent, "isActive": true}
	if responderType != "" {
		filter["responderType"] = responderType
	}

	cursor, err := ur.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}

	return users, nil
}

func (ur *UserRepository) List(ctx context.Context, filter bson.M, page, pageSize int) ([]models.User, int64, error) {
	total, err := ur.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize)).
		SetSort(bson.M{"createdAt": -1})

	cursor, err := ur.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (ur *UserRepository) Deactivate(ctx context.Context, id string) error {
	return ur.Update(ctx, id, bson.M{"isActive": false})
}

// GetAvailability reads the responder availability record. Responders
// without a record are reported as offline.
func (ur *UserRepository) GetAvailability(ctx context.Context, responderID primitive.ObjectID) (string, error) {
	var status models.ResponderStatus
	err := ur.statusCol.FindOne(ctx, bson.M{"responderId": responderID}).Decode(&status)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.AvailabilityOffline, nil
		}
		return "", err
	}

	return status.Status, nil
}

func (ur *UserRepository) SetAvailability(ctx context.Context, responderID primitive.ObjectID, status string) error {
	opts := options.Update().SetUpsert(true)
	_, err := ur.statusCol.UpdateOne(
		ctx,
		bson.M{"responderId": responderID},
		bson.M{"$set": bson.M{
			"status":    status,
			"updatedAt": time.Now(),
		}},
		opts,
	)
	return err
}

// GetAvailableResponderIDs returns the set of responders currently
// marked available.
func (ur *UserRepository) GetAvailableResponderIDs(ctx context.Context) (map[primitive.ObjectID]bool, error) {
	cursor, err := ur.statusCol.Find(ctx, bson.M{"status": models.AvailabilityAvailable})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var statuses []models.ResponderStatus
	if err := cursor.All(ctx, &statuses); err != nil {
		return nil, err
	}

	available := make(map[primitive.ObjectID]bool, len(statuses))
	for _, s := range statuses {
		available[s.ResponderID] = true
	}

	return available, nil
}
