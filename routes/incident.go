package routes

import (
	"aegis/controllers"
	"aegis/middleware"
	"aegis/models"

	"github.com/gin-gonic/gin"
)

// SetupIncidentRoutes configures incident report routes.
func SetupIncidentRoutes(router *gin.RouterGroup, incidentController *controllers.IncidentController, authMiddleware *middleware.AuthMiddleware) {
	reports := router.Group("/reports")
	reports.Use(authMiddleware.RequireAuth())
	{
		reports.POST("", incidentController.Submit)
		reports.GET("", incidentController.ListMine)
		reports.GET("/recent", incidentController.ListRecent)
		reports.GET("/:id", incidentController.Get)
		reports.POST("/:id/media", incidentController.AttachMedia)
		reports.GET("/:id/media", incidentController.GetMedia)
		reports.GET("/:id/updates", incidentController.GetUpdates)

		// Review desk endpoints
		review := reports.Group("/")
		review.Use(authMiddleware.RequireRole(models.UserTypeController))
		{
			review.GET("/all", incidentController.ListAll)
			review.PUT("/:id/status", incidentController.UpdateStatus)
			review.GET("/statistics", incidentController.GetStatistics)
		}
	}
}
