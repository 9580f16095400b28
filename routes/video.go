package routes

import (
	"aegis/controllers"
	"aegis/middleware"
	"aegis/models"

	"github.com/gin-gonic/gin"
)

// SetupVideoRoutes configures video evidence routes.
func SetupVideoRoutes(router *gin.RouterGroup, videoController *controllers.VideoController, authMiddleware *middleware.AuthMiddleware) {
	videos := router.Group("/videos")
	videos.Use(authMiddleware.RequireAuth())
	{
		videos.POST("/upload", videoController.Upload)
		videos.GET("", videoController.ListMine)
		videos.GET("/:id", videoController.Get)
		videos.GET("/alert/:alertId", videoController.GetByAlert)
		videos.DELETE("/:id", videoController.Delete)

		// Review desk endpoints
		review := videos.Group("/")
		review.Use(authMiddleware.RequireRole(models.UserTypeController))
		{
			review.GET("/all", videoController.ListAll)
			review.PUT("/:id/status", videoController.UpdateStatus)
		}
	}
}
