package services

import (
	"context"
	"math"

	"aegis/models"
	"aegis/repositories"
	"aegis/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuizPassThreshold is the minimum score, in percent, counted as a pass.
const QuizPassThreshold = 70.0

type LearningService struct {
	learningRepo *repositories.LearningRepository
}

func NewLearningService(learningRepo *repositories.LearningRepository) *LearningService {
	return &LearningService{learningRepo: learningRepo}
}

func (ls *LearningService) GetCategories(ctx context.Context) ([]models.CategoryView, error) {
	categories, err := ls.learningRepo.GetCategories(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.CategoryView, 0, len(categories))
	for _, category := range categories {
		count, err := ls.learningRepo.CountResourcesByCategory(ctx, category.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, models.CategoryView{
			ResourceCategory: category,
			ResourceCount:    count,
		})
	}

	return views, nil
}

func (ls *LearningService) CreateCategory(ctx context.Context, req models.CreateCategoryRequest) (*models.ResourceCategory, error) {
	category := models.ResourceCategory{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Order:       req.Order,
		IsActive:    true,
	}

	if err := ls.learningRepo.CreateCategory(ctx, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

func (ls *LearningService) GetResources(ctx context.Context, categoryID string) ([]models.LearningResource, error) {
	cid, err := primitive.ObjectIDFromHex(categoryID)
	if err != nil {
		return nil, utils.NewValidationError("invalid category ID")
	}

	return ls.learningRepo.GetResourcesByCategory(ctx, cid, true)
}

func (ls *LearningService) CreateResource(ctx context.Context, req models.CreateResourceRequest) (*models.LearningResource, error) {
	cid, err := primitive.ObjectIDFromHex(req.CategoryID)
	if err != nil {
		return nil, utils.NewValidationError("invalid category ID")
	}

	difficulty := req.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyBeginner
	}

	resource := models.LearningResource{
		CategoryID:   cid,
		Title:        req.Title,
		ResourceType: req.ResourceType,
		Difficulty:   difficulty,
		Description:  req.Description,
		Content:      req.Content,
		VideoURL:     req.VideoURL,
		Duration:     req.Duration,
		Order:        req.Order,
		IsPublished:  req.IsPublished,
	}

	if err := ls.learningRepo.CreateResource(ctx, &resource); err != nil {
		return nil, err
	}

	return &resource, nil
}

// GetResourceDetail assembles a resource with its links, quiz questions
// and the caller's progress. Correct answers never leave the server.
func (ls *LearningService) GetResourceDetail(ctx context.Context, userID, resourceID string) (*models.ResourceDetail, error) {
	resource, err := ls.learningRepo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return nil, utils.NewNotFoundError("resource")
	}

	links, err := ls.learningRepo.GetExternalLinks(ctx, resource.ID)
	if err != nil {
		return nil, err
	}

	detail := &models.ResourceDetail{
		LearningResource: *resource,
		ExternalLinks:    links,
	}

	if resource.ResourceType == models.ResourceTypeQuiz {
		questions, err := ls.learningRepo.GetQuestions(ctx, resource.ID)
		if err != nil {
			return nil, err
		}
		for _, question := range questions {
			opts, err := ls.learningRepo.GetOptions(ctx, question.ID)
			if err != nil {
				return nil, err
			}
			detail.Questions = append(detail.Questions, models.QuizQuestionView{
				QuizQuestion: question,
				Options:      opts,
			})
		}
	}

	if uid, err := primitive.ObjectIDFromHex(userID); err == nil {
		progress, err := ls.learningRepo.GetProgressForResource(ctx, uid, resource.ID)
		if err == nil {
			detail.Progress = progress
		}
	}

	return detail, nil
}

func (ls *LearningService) AddQuestion(ctx context.Context, resourceID string, req models.CreateQuizQuestionRequest) (*models.QuizQuestion, error) {
	resource, err := ls.learningRepo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return nil, utils.NewNotFoundError("resource")
	}

	if resource.ResourceType != models.ResourceTypeQuiz {
		return nil, utils.NewValidationError("resource is not a quiz")
	}

	question := models.QuizQuestion{
		ResourceID: resource.ID,
		Question:   req.Question,
		Order:      req.Order,
	}

	if err := ls.learningRepo.CreateQuestion(ctx, &question); err != nil {
		return nil, err
	}

	return &question, nil
}

func (ls *LearningService) AddOption(ctx context.Context, questionID string, req models.CreateQuizOptionRequest) (*models.QuizOption, error) {
	qid, err := primitive.ObjectIDFromHex(questionID)
	if err != nil {
		return nil, utils.NewValidationError("invalid question ID")
	}

	option := models.QuizOption{
		QuestionID: qid,
		Text:       req.Text,
		IsCorrect:  req.IsCorrect,
	}

	if err := ls.learningRepo.CreateOption(ctx, &option); err != nil {
		return nil, err
	}

	return &option, nil
}

func (ls *LearningService) AddExternalLink(ctx context.Context, resourceID string, req models.CreateExternalLinkRequest) (*models.ExternalLink, error) {
	resource, err := ls.learningRepo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return nil, utils.NewNotFoundError("resource")
	}

	link := models.ExternalLink{
		ResourceID: resource.ID,
		Title:      req.Title,
		URL:        req.URL,
	}

	if err := ls.learningRepo.CreateExternalLink(ctx, &link); err != nil {
		return nil, err
	}

	return &link, nil
}

// SubmitQuiz grades the answers server side and records the attempt.
// Unanswered questions count as wrong.
func (ls *LearningService) SubmitQuiz(ctx context.Context, userID, resourceID string, req models.SubmitQuizRequest) (*models.QuizResult, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	resource, err := ls.learningRepo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return nil, utils.NewNotFoundError("resource")
	}

	if resource.ResourceType != models.ResourceTypeQuiz {
		return nil, utils.NewValidationError("resource is not a quiz")
	}

	questions, err := ls.learningRepo.GetQuestions(ctx, resource.ID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, utils.NewValidationError("quiz has no questions")
	}

	answered := make(map[string]string, len(req.Answers))
	for _, answer := range req.Answers {
		answered[answer.QuestionID] = answer.OptionID
	}

	correct := 0
	for _, question := range questions {
		optionID, ok := answered[question.ID.Hex()]
		if !ok {
			continue
		}
		opts, err := ls.learningRepo.GetOptions(ctx, question.ID)
		if err != nil {
			return nil, err
		}
		for _, opt := range opts {
			if opt.ID.Hex() == optionID && opt.IsCorrect {
				correct++
				break
			}
		}
	}

	score := math.Round(float64(correct)/float64(len(questions))*10000) / 100

	attempt := models.UserQuizAttempt{
		UserID:         uid,
		ResourceID:     resource.ID,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(questions),
	}
	if err := ls.learningRepo.RecordQuizAttempt(ctx, &attempt); err != nil {
		return nil, err
	}

	passed := score >= QuizPassThreshold
	if passed {
		progress := models.UserProgress{
			UserID:             uid,
			ResourceID:         resource.ID,
			ProgressPercentage: 100,
			Completed:          true,
		}
		if err := ls.learningRepo.UpsertProgress(ctx, &progress); err != nil {
			return nil, err
		}
	}

	return &models.QuizResult{
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: len(questions),
		Passed:         passed,
	}, nil
}

// UpdateProgress records reading or viewing progress on a resource.
func (ls *LearningService) UpdateProgress(ctx context.Context, userID, resourceID string, percentage float64, bookmarked *bool) (*models.UserProgress, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	resource, err := ls.learningRepo.GetResourceByID(ctx, resourceID)
	if err != nil {
		return nil, utils.NewNotFoundError("resource")
	}

	if percentage < 0 || percentage > 100 {
		return nil, utils.NewValidationError("progress must be between 0 and 100")
	}

	progress, err := ls.learningRepo.GetProgressForResource(ctx, uid, resource.ID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &models.UserProgress{UserID: uid, ResourceID: resource.ID}
	}

	progress.ProgressPercentage = percentage
	progress.Completed = percentage >= 100
	if bookmarked != nil {
		progress.Bookmarked = *bookmarked
	}

	if err := ls.learningRepo.UpsertProgress(ctx, progress); err != nil {
		return nil, err
	}

	return progress, nil
}

func (ls *LearningService) GetProgress(ctx context.Context, userID string) ([]models.UserProgress, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	return ls.learningRepo.GetProgress(ctx, uid)
}

// ListBookmarks returns only the caller's bookmarked progress rows.
func (ls *LearningService) ListBookmarks(ctx context.Context, userID string) ([]models.UserProgress, error) {
	progress, err := ls.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookmarks := make([]models.UserProgress, 0, len(progress))
	for _, row := range progress {
		if row.Bookmarked {
			bookmarks = append(bookmarks, row)
		}
	}
	return bookmarks, nil
}

func (ls *LearningService) GetQuizAttempts(ctx context.Context, userID string) ([]models.UserQuizAttempt, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	return ls.learningRepo.GetQuizAttempts(ctx, uid)
}
