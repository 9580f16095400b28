package database

import (
	"context"
	"time"

	"aegis/models"
	"aegis/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Seeder represents a database seeder
type Seeder struct {
	Name        string
	Description string
	Seed        func(*mongo.Database) error
}

var seeders = []Seeder{
	{
		Name:        "demo_users",
		Description: "Create demo users, agents and admin for development",
		Seed:        seedDemoUsers,
	},
	{
		Name:        "learning_content",
		Description: "Create starter learning categories and resources",
		Seed:        seedLearningContent,
	},
}

// RunSeeders executes all database seeders
func RunSeeders(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seedersCol := db.Collection("seeders")
	count, err := seedersCol.CountDocuments(ctx, bson.M{})
	if err == nil && count > 0 {
		logrus.Info("Seeders already run, skipping")
		return nil
	}

	logrus.Info("Running database seeders...")

	for _, seeder := range seeders {
		if err := seeder.Seed(db); err != nil {
			logrus.Errorf("Seeder %s failed: %v", seeder.Name, err)
			continue
		}

		_, err := seedersCol.InsertOne(ctx, bson.M{
			"name":      seeder.Name,
			"createdAt": time.Now(),
		})
		if err != nil {
			logrus.Warnf("Failed to record seeder %s: %v", seeder.Name, err)
		}
	}

	return nil
}

func seedDemoUsers(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()

	type agentSeed struct {
		name          string
		email         string
		agentID       string
		responderType string
		lat, lng      float64
	}

	agents := []agentSeed{
		{"Officer Rahim", "rahim.police@aegis.dev", "AGT-1001", models.ResponderTypePolice, 23.8103, 90.4125},
		{"Paramedic Salma", "salma.medic@aegis.dev", "AGT-1002", models.ResponderTypeMedical, 23.7925, 90.4078},
		{"Firefighter Karim", "karim.fire@aegis.dev", "AGT-1003", models.ResponderTypeFire, 23.8200, 90.4250},
		{"Volunteer Nadia", "nadia.vol@aegis.dev", "AGT-1004", models.ResponderTypeVolunteer, 23.8050, 90.4180},
	}

	users := []interface{}{
		models.User{
			ID:              primitive.NewObjectID(),
			FullName:        "Demo User",
			Email:           "user@aegis.dev",
			Password:        string(hash),
			UserType:        models.UserTypeUser,
			Phone:           "+8801700000001",
			DeactivationPIN: "2580",
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		models.User{
			ID:              primitive.NewObjectID(),
			FullName:        "Control Room",
			Email:           "controller@aegis.dev",
			Password:        string(hash),
			UserType:        models.UserTypeController,
			DeactivationPIN: "2580",
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
		models.User{
			ID:              primitive.NewObjectID(),
			FullName:        "System Admin",
			Email:           "admin@aegis.dev",
			Password:        string(hash),
			UserType:        models.UserTypeAdmin,
			DeactivationPIN: "2580",
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}

	statusDocs := []interface{}{}
	for _, a := range agents {
		id := primitive.NewObjectID()
		users = append(users, models.User{
			ID:              id,
			FullName:        a.name,
			Email:           a.email,
			Password:        string(hash),
			UserType:        models.UserTypeAgent,
			AgentID:         a.agentID,
			ResponderType:   a.responderType,
			Latitude:        utils.Float64Ptr(a.lat),
			Longitude:       utils.Float64Ptr(a.lng),
			DeactivationPIN: "2580",
			IsActive:        true,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		statusDocs = append(statusDocs, models.ResponderStatus{
			ResponderID: id,
			Status:      models.AvailabilityAvailable,
			UpdatedAt:   now,
		})
	}

	if _, err := db.Collection("users").InsertMany(ctx, users); err != nil {
		return err
	}
	_, err = db.Collection("responder_status").InsertMany(ctx, statusDocs)
	return err
}

func seedLearningContent(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	now := time.Now()

	categoryID := primitive.NewObjectID()
	category := models.ResourceCategory{
		ID:          categoryID,
		Name:        "Personal Safety Basics",
		Description: "Foundational safety awareness",
		Icon:        "shield",
		Order:       1,
		IsActive:    true,
		CreatedAt:   now,
	}

	if _, err := db.Collection("resource_categories").InsertOne(ctx, category); err != nil {
		return err
	}

	resource := models.LearningResource{
		ID:           primitive.NewObjectID(),
		CategoryID:   categoryID,
		Title:        "Staying Aware in Public Spaces",
		ResourceType: models.ResourceTypeArticle,
		Difficulty:   models.DifficultyBeginner,
		Description:  "Habits that reduce risk in crowded areas",
		Content:      "Keep your phone reachable, share your route with a trusted contact, and identify exits when entering unfamiliar venues.",
		Order:        1,
		IsPublished:  true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := db.Collection("learning_resources").InsertOne(ctx, resource)
	return err
}
