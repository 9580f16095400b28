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

type LearningRepository struct {
	categories *mongo.Collection
	resources  *mongo.Collection
	links      *mongo.Collection
	questions  *mongo.Collection
	optionsCol *mongo.Collection
	progress   *mongo.Collection
	attempts   *mongo.Collection
}

func NewLearningRepository(db *mongo.Database) *LearningRepository {
	return &LearningRepository{
		categories: db.Collection("resource_categories"),
		resources:  db.Collection("learning_resources"),
		links:      db.Collection("external_links"),
		questions:  db.Collection("quiz_questions"),
		optionsCol: db.Collection("quiz_options"),
		progress:   db.Collection("user_progress"),
		attempts:   db.Collection("user_quiz_attempts"),
	}
}

func (lr *LearningRepository) CreateCategory(ctx context.Context, category *models.ResourceCategory) error {
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()

	_, err := lr.categories.InsertOne(ctx, category)
	return err
}

func (lr *LearningRepository) GetCategories(ctx context.Context) ([]models.ResourceCategory, error) {
	opts := options.Find().SetSort(bson.M{"order": 1})
	cursor, err := lr.categories.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.ResourceCategory
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}

	return categories, nil
}

func (lr *LearningRepository) CreateResource(ctx context.Context, resource *models.LearningResource) error {
	resource.ID = primitive.NewObjectID()
	resource.CreatedAt = time.Now()
	resource.UpdatedAt = time.Now()

	_, err := lr.resources.InsertOne(ctx, resource)
	return err
}

func (lr *LearningRepository) GetResourceByID(ctx context.Context, id string) (*models.LearningResource, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid resource ID")
	}

	var resource models.LearningResource
	err = lr.resources.FindOne(ctx, bson.M{"_id": objectID}).Decode(&resource)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, errors.New("resource not found")
		}
		return nil, err
	}

	return &resource, nil
}

func (lr *LearningRepository) GetResourcesByCategory(ctx context.Context, categoryID primitive.ObjectID, publishedOnly bool) ([]models.LearningResource, error) {
	filter := bson.M{"categoryId": categoryID}
	if publishedOnly {
		filter["isPublished"] = true
	}

	opts := options.Find().SetSort(bson.M{"order": 1})
	cursor, err := lr.resources.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var resources []models.LearningResource
	if err := cursor.All(ctx, &resources); err != nil {
		return nil, err
	}

	return resources, nil
}

func (lr *LearningRepository) CountResourcesByCategory(ctx context.Context, categoryID primitive.ObjectID) (int64, error) {
	return lr.resources.CountDocuments(ctx, bson.M{
		"categoryId":  categoryID,
		"isPublished": true,
	})
}

func (lr *LearningRepository) CreateExternalLink(ctx context.Context, link *models.ExternalLink) error {
	link.ID = primitive.NewObjectID()

	_, err := lr.links.InsertOne(ctx, link)
	return err
}

func (lr *LearningRepository) GetExternalLinks(ctx context.Context, resourceID primitive.ObjectID) ([]models.ExternalLink, error) {
	cursor, err := lr.links.Find(ctx, bson.M{"resourceId": resourceID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var links []models.ExternalLink
	if err := cursor.All(ctx, &links); err != nil {
		return nil, err
	}

	return links, nil
}

func (lr *LearningRepository) CreateQuestion(ctx context.Context, question *models.QuizQuestion) error {
	question.ID = primitive.NewObjectID()

	_, err := lr.questions.InsertOne(ctx, question)
	return err
}

func (lr *LearningRepository) GetQuestions(ctx context.Context, resourceID primitive.ObjectID) ([]models.QuizQuestion, error) {
	opts := options.Find().SetSort(bson.M{"order": 1})
	cursor, err := lr.questions.Find(ctx, bson.M{"resourceId": resourceID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []models.QuizQuestion
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}

	return questions, nil
}

func (lr *LearningRepository) CreateOption(ctx context.Context, option *models.QuizOption) error {
	option.ID = primitive.NewObjectID()

	_, err := lr.optionsCol.InsertOne(ctx, option)
	return err
}

func (lr *LearningRepository) GetOptions(ctx context.Context, questionID primitive.ObjectID) ([]models.QuizOption, error) {
	cursor, err := lr.optionsCol.Find(ctx, bson.M{"questionId": questionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var opts []models.QuizOption
	if err := cursor.All(ctx, &opts); err != nil {
		return nil, err
	}

	return opts, nil
}

func (lr *LearningRepository) UpsertProgress(ctx context.Context, progress *models.UserProgress) error {
	progress.UpdatedAt = time.Now()

	opts := options.Update().SetUpsert(true)
	_, err := lr.progress.UpdateOne(
		ctx,
		bson.M{"userId": progress.UserID, "resourceId": progress.ResourceID},
		bson.M{"$set": progress},
		opts,
	)
	return err
}

func (lr *LearningRepository) GetProgress(ctx context.Context, userID primitive.ObjectID) ([]models.UserProgress, error) {
	cursor, err := lr.progress.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var progress []models.UserProgress
	if err := cursor.All(ctx, &progress); err != nil {
		return nil, err
	}

	return progress, nil
}

func (lr *LearningRepository) GetProgressForResource(ctx context.Context, userID, resourceID primitive.ObjectID) (*models.UserProgress, error) {
	var progress models.UserProgress
	err := lr.progress.FindOne(ctx, bson.M{
		"userId":     userID,
		"resourceId": resourceID,
	}).Decode(&progress)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}

	return &progress, nil
}

func (lr *LearningRepository) RecordQuizAttempt(ctx context.Context, attempt *models.UserQuizAttempt) error {
	attempt.ID = primitive.NewObjectID()
	attempt.CompletedAt = time.Now()

	_, err := lr.attempts.InsertOne(ctx, attempt)
	return err
}

func (lr *LearningRepository) GetQuizAttempts(ctx context.Context, userID primitive.ObjectID) ([]models.UserQuizAttempt, error) {
	opts := options.Find().SetSort(bson.M{"completedAt": -1})
	cursor, err := lr.attempts.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attempts []models.UserQuizAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, err
	}

	return attempts, nil
}
