package database

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Migration represents a database migration
type Migration struct {
	Version     int
	Description string
	Up          func(*mongo.Database) error
}

// migrationRecord tracks applied migrations
type migrationRecord struct {
	Version   int       `bson:"version"`
	AppliedAt time.Time `bson:"appliedAt"`
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Create users collection with indexes",
		Up:          createUsersCollection,
	},
	{
		Version:     2,
		Description: "Create emergency contacts collection with indexes",
		Up:          createContactsCollection,
	},
	{
		Version:     3,
		Description: "Create alerts collections with indexes",
		Up:          createAlertCollections,
	},
	{
		Version:     4,
		Description: "Create responder status collection with indexes",
		Up:          createResponderStatusCollection,
	},
	{
		Version:     5,
		Description: "Create notifications collection with indexes",
		Up:          createNotificationsCollection,
	},
	{
		Version:     6,
		Description: "Create check-in collections with indexes",
		Up:          createCheckInCollections,
	},
	{
		Version:     7,
		Description: "Create incident report collections with indexes",
		Up:          createIncidentCollections,
	},
	{
		Version:     8,
		Description: "Create learning collections with indexes",
		Up:          createLearningCollections,
	},
	{
		Version:     9,
		Description: "Create video evidence collection with indexes",
		Up:          createVideoCollection,
	},
	{
		Version:     10,
		Description: "Create safe locations collection with indexes",
		Up:          createSafeLocationsCollection,
	},
}

// RunMigrations executes all pending migrations
func RunMigrations(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	migrationsCol := db.Collection("migrations")

	currentVersion := getCurrentMigrationVersion(ctx, migrationsCol)
	logrus.Infof("Current migration version: %d", currentVersion)

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logrus.Infof("Running migration %d: %s", migration.Version, migration.Description)

		if err := migration.Up(db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		_, err := migrationsCol.InsertOne(ctx, migrationRecord{
			Version:   migration.Version,
			AppliedAt: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

func getCurrentMigrationVersion(ctx context.Context, col *mongo.Collection) int {
	opts := options.FindOne().SetSort(bson.D{{Key: "version", Value: -1}})
	var record migrationRecord
	err := col.FindOne(ctx, bson.D{}, opts).Decode(&record)
	if err != nil {
		return 0 // No migrations applied yet
	}
	return record.Version
}

func createIndexes(db *mongo.Database, collection string, indexes []mongo.IndexModel) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := db.Collection(collection).Indexes().CreateMany(ctx, indexes)
	return err
}

// Individual migration functions

func createUsersCollection(db *mongo.Database) error {
	return createIndexes(db, "users", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "agentId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.M{"agentId": bson.M{"$exists": true, "$type": "string"}},
			),
		},
		{
			Keys: bson.D{{Key: "userType", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "phone", Value: 1}},
		},
	})
}

func createContactsCollection(db *mongo.Database) error {
	return createIndexes(db, "emergency_contacts", []mongo.IndexModel{
		{
			// One contact per phone per user
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "phone", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// At most one primary contact per user, enforced at the database level
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isPrimary", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(
				bson.M{"isPrimary": true},
			),
		},
	})
}

func createAlertCollections(db *mongo.Database) error {
	if err := createIndexes(db, "emergency_alerts", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "alertId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "activatedAt", Value: -1}},
		},
	}); err != nil {
		return err
	}

	if err := createIndexes(db, "location_updates", []mongo.IndexModel{
		{Keys: bson.D{{Key: "alertId", Value: 1}, {Key: "recordedAt", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(db, "media_captures", []mongo.IndexModel{
		{Keys: bson.D{{Key: "alertId", Value: 1}, {Key: "capturedAt", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(db, "emergency_responses", []mongo.IndexModel{
		{
			// One response per (alert, responder) pair
			Keys:    bson.D{{Key: "alertId", Value: 1}, {Key: "responderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "responderId", Value: 1}, {Key: "status", Value: 1}},
		},
	}); err != nil {
		return err
	}

	return createIndexes(db, "deactivation_attempts", []mongo.IndexModel{
		{Keys: bson.D{{Key: "alertId", Value: 1}, {Key: "attemptedAt", Value: 1}}},
	})
}

func createResponderStatusCollection(db *mongo.Database) error {
	return createIndexes(db, "responder_status", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "responderId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	})
}

func createNotificationsCollection(db *mongo.Database) error {
	return createIndexes(db, "emergency_notifications", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "isRead", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "alertId", Value: 1}},
		},
	})
}

func createCheckInCollections(db *mongo.Database) error {
	if err := createIndexes(db, "safety_checkins", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "scheduledAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}, {Key: "scheduledAt", Value: 1}},
		},
	}); err != nil {
		return err
	}

	return createIndexes(db, "safety_check_settings", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
}

func createIncidentCollections(db *mongo.Database) error {
	if err := createIndexes(db, "incident_reports", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "incidentType", Value: 1}},
		},
	}); err != nil {
		return err
	}

	if err := createIndexes(db, "incident_media", []mongo.IndexModel{
		{Keys: bson.D{{Key: "incidentId", Value: 1}}},
	}); err != nil {
		return err
	}

	return createIndexes(db, "incident_updates", []mongo.IndexModel{
		{Keys: bson.D{{Key: "incidentId", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
}

func createLearningCollections(db *mongo.Database) error {
	if err := createIndexes(db, "resource_categories", []mongo.IndexModel{
		{Keys: bson.D{{Key: "order", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(db, "learning_resources", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "categoryId", Value: 1}, {Key: "isPublished", Value: 1}, {Key: "order", Value: 1}},
		},
	}); err != nil {
		return err
	}

	if err := createIndexes(db, "quiz_questions", []mongo.IndexModel{
		{Keys: bson.D{{Key: "resourceId", Value: 1}, {Key: "order", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(db, "quiz_options", []mongo.IndexModel{
		{Keys: bson.D{{Key: "questionId", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(db, "external_links", []mongo.IndexModel{
		{Keys: bson.D{{Key: "resourceId", Value: 1}}},
	}); err != nil {
		return err
	}

	if err := createIndexes(db, "user_progress", []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "resourceId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}); err != nil {
		return err
	}

	return createIndexes(db, "quiz_attempts", []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}}},
	})
}

func createVideoCollection(db *mongo.Database) error {
	return createIndexes(db, "video_evidence", []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	})
}

func createSafeLocationsCollection(db *mongo.Database) error {
	return createIndexes(db, "safe_locations", []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})
}
