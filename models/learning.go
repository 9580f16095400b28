package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResourceCategory struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Icon        string             `json:"icon,omitempty" bson:"icon,omitempty"`
	Order       int                `json:"order" bson:"order"`
	IsActive    bool               `json:"is_active" bson:"isActive"`
	CreatedAt   time.Time          `json:"created_at" bson:"createdAt"`
}

type LearningResource struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	CategoryID   primitive.ObjectID `json:"category_id" bson:"categoryId"`
	Title        string             `json:"title" bson:"title"`
	ResourceType string             `json:"resource_type" bson:"resourceType"`
	Difficulty   string             `json:"difficulty" bson:"difficulty"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Content      string             `json:"content,omitempty" bson:"content,omitempty"`
	VideoURL     string             `json:"video_url,omitempty" bson:"videoUrl,omitempty"`
	Duration     int                `json:"duration,omitempty" bson:"duration,omitempty"`
	Order        int                `json:"order" bson:"order"`
	IsPublished  bool               `json:"is_published" bson:"isPublished"`
	CreatedAt    time.Time          `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updatedAt"`
}

// Resource type constants
const (
	ResourceTypeArticle = "article"
	ResourceTypeVideo   = "video"
	ResourceTypeQuiz    = "quiz"
)

// Difficulty constants
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

type ExternalLink struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ResourceID primitive.ObjectID `json:"-" bson:"resourceId"`
	Title      string             `json:"title" bson:"title"`
	URL        string             `json:"url" bson:"url"`
}

type QuizQuestion struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ResourceID primitive.ObjectID `json:"-" bson:"resourceId"`
	Question   string             `json:"question" bson:"question"`
	Order      int                `json:"order" bson:"order"`
}

type QuizOption struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	QuestionID primitive.ObjectID `json:"-" bson:"questionId"`
	Text       string             `json:"text" bson:"text"`
	// Correct flag is stripped from quiz payloads served to users
	IsCorrect bool `json:"-" bson:"isCorrect"`
}

type UserProgress struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID             primitive.ObjectID `json:"-" bson:"userId"`
	ResourceID         primitive.ObjectID `json:"resource_id" bson:"resourceId"`
	ProgressPercentage float64            `json:"progress_percentage" bson:"progressPercentage"`
	Completed          bool               `json:"completed" bson:"completed"`
	Bookmarked         bool               `json:"bookmarked" bson:"bookmarked"`
	UpdatedAt          time.Time          `json:"updated_at" bson:"updatedAt"`
}

type UserQuizAttempt struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         primitive.ObjectID `json:"-" bson:"userId"`
	ResourceID     primitive.ObjectID `json:"resource_id" bson:"resourceId"`
	Score          float64            `json:"score" bson:"score"`
	CorrectAnswers int                `json:"correct_answers" bson:"correctAnswers"`
	TotalQuestions int                `json:"total_questions" bson:"totalQuestions"`
	CompletedAt    time.Time          `json:"completed_at" bson:"completedAt"`
}

// =================== REQUEST/RESPONSE MODELS ===================

type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Order       int    `json:"order"`
}

type CreateResourceRequest struct {
	CategoryID   string `json:"category" validate:"required"`
	Title        string `json:"title" validate:"required,min=1,max=255"`
	ResourceType string `json:"resource_type" validate:"required,oneof=article video quiz"`
	Difficulty   string `json:"difficulty,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Description  string `json:"description,omitempty"`
	Content      string `json:"content,omitempty"`
	VideoURL     string `json:"video_url,omitempty" validate:"omitempty,url"`
	Duration     int    `json:"duration,omitempty"`
	Order        int    `json:"order"`
	IsPublished  bool   `json:"is_published"`
}

type CreateExternalLinkRequest struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

type CreateQuizQuestionRequest struct {
	Question string `json:"question" validate:"required"`
	Order    int    `json:"order"`
}

type CreateQuizOptionRequest struct {
	Text      string `json:"text" validate:"required"`
	IsCorrect bool   `json:"is_correct"`
}

type QuizAnswer struct {
	QuestionID string `json:"question_id" validate:"required"`
	OptionID   string `json:"option_id" validate:"required"`
}

type SubmitQuizRequest struct {
	Answers []QuizAnswer `json:"answers" validate:"required,min=1,dive"`
}

type QuizResult struct {
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	Passed         bool    `json:"passed"`
}

type CategoryView struct {
	ResourceCategory
	ResourceCount int64 `json:"resource_count"`
}

type ResourceDetail struct {
	LearningResource
	ExternalLinks []ExternalLink     `json:"external_links"`
	Questions     []QuizQuestionView `json:"questions,omitempty"`
	Progress      *UserProgress      `json:"progress,omitempty"`
}

type QuizQuestionView struct {
	QuizQuestion
	Options []QuizOption `json:"options"`
}
