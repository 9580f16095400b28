package routes

import (
	"aegis/controllers"
	"aegis/middleware"
	"aegis/models"

	"github.com/gin-gonic/gin"
)

// SetupLearningRoutes configures safety education routes.
func SetupLearningRoutes(router *gin.RouterGroup, learningController *controllers.LearningController, authMiddleware *middleware.AuthMiddleware) {
	learn := router.Group("/learn")
	learn.Use(authMiddleware.RequireAuth())
	{
		learn.GET("/categories", learningController.GetCategories)
		learn.GET("/categories/:categoryId/resources", learningController.GetResources)
		learn.GET("/resources/:id", learningController.GetResourceDetail)
		learn.POST("/resources/:id/quiz", learningController.SubmitQuiz)
		learn.PUT("/resources/:id/progress", learningController.UpdateProgress)
		learn.GET("/progress", learningController.GetProgress)
		learn.GET("/bookmarks", learningController.ListBookmarks)
		learn.GET("/quiz-history", learningController.GetQuizAttempts)

		// Content authoring endpoints
		authoring := learn.Group("/")
		authoring.Use(authMiddleware.RequireRole(models.UserTypeController))
		{
			authoring.POST("/categories", learningController.CreateCategory)
			authoring.POST("/resources", learningController.CreateResource)
			authoring.POST("/resources/:id/questions", learningController.AddQuestion)
			authoring.POST("/questions/:questionId/options", learningController.AddOption)
			authoring.POST("/resources/:id/links", learningController.AddExternalLink)
		}
	}
}
