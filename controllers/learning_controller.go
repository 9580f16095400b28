package controllers

import (
	"aegis/models"
	"aegis/services"
	"aegis/utils"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	learningService *services.LearningService
	validator       *utils.ValidationService
}

func NewLearningController(learningService *services.LearningService) *LearningController {
	return &LearningController{
		learningService: learningService,
		validator:       utils.NewValidationService(),
	}
}

func (lc *LearningController) GetCategories(c *gin.Context) {
	categories, err := lc.learningService.GetCategories(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Categories", categories)
}

func (lc *LearningController) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := lc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	category, err := lc.learningService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Category created", category)
}

func (lc *LearningController) GetResources(c *gin.Context) {
	resources, err := lc.learningService.GetResources(c.Request.Context(), c.Param("categoryId"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Resources", resources)
}

func (lc *LearningController) CreateResource(c *gin.Context) {
	var req models.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := lc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	resource, err := lc.learningService.CreateResource(c.Request.Context(), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Resource created", resource)
}

func (lc *LearningController) GetResourceDetail(c *gin.Context) {
	detail, err := lc.learningService.GetResourceDetail(c.Request.Context(), utils.GetUserID(c), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Resource detail", detail)
}

func (lc *LearningController) AddQuestion(c *gin.Context) {
	var req models.CreateQuizQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := lc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	question, err := lc.learningService.AddQuestion(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Question added", question)
}

func (lc *LearningController) AddOption(c *gin.Context) {
	var req models.CreateQuizOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := lc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	option, err := lc.learningService.AddOption(c.Request.Context(), c.Param("questionId"), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Option added", option)
}

func (lc *LearningController) AddExternalLink(c *gin.Context) {
	var req models.CreateExternalLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := lc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	link, err := lc.learningService.AddExternalLink(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Link added", link)
}

func (lc *LearningController) SubmitQuiz(c *gin.Context) {
	var req models.SubmitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := lc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := lc.learningService.SubmitQuiz(c.Request.Context(), utils.GetUserID(c), c.Param("id"), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Quiz graded", result)
}

type updateProgressRequest struct {
	ProgressPercentage float64 `json:"progress_percentage" validate:"min=0,max=100"`
	Bookmarked         *bool   `json:"bookmarked,omitempty"`
}

func (lc *LearningController) UpdateProgress(c *gin.Context) {
	var req updateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	progress, err := lc.learningService.UpdateProgress(c.Request.Context(), utils.GetUserID(c),
		c.Param("id"), req.ProgressPercentage, req.Bookmarked)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Progress updated", progress)
}

func (lc *LearningController) GetProgress(c *gin.Context) {
	progress, err := lc.learningService.GetProgress(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Progress", progress)
}

func (lc *LearningController) ListBookmarks(c *gin.Context) {
	bookmarks, err := lc.learningService.ListBookmarks(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Bookmarks", bookmarks)
}

func (lc *LearningController) GetQuizAttempts(c *gin.Context) {
	attempts, err := lc.learningService.GetQuizAttempts(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Quiz attempts", attempts)
}
