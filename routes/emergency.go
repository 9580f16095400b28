package routes

import (
	"aegis/controllers"
	"aegis/middleware"
	"aegis/models"

	"github.com/gin-gonic/gin"
)

// SetupEmergencyRoutes configures panic alert routes.
func SetupEmergencyRoutes(router *gin.RouterGroup, emergencyController *controllers.EmergencyController, responderController *controllers.ResponderController, authMiddleware *middleware.AuthMiddleware) {
	emergency := router.Group("/emergency")
	emergency.Use(authMiddleware.RequireAuth())
	{
		emergency.POST("/activate", emergencyController.Activate)
		emergency.POST("/deactivate", emergencyController.Deactivate)
		emergency.POST("/update-location", emergencyController.UpdateLocation)
		emergency.POST("/upload-media", emergencyController.UploadMedia)

		emergency.GET("/active", emergencyController.GetActive)
		emergency.GET("/alerts", emergencyController.GetHistory)
		emergency.GET("/alerts/:alertId", emergencyController.GetDetail)
		emergency.GET("/alerts/:alertId/available-responders", responderController.ListAvailableForAlert)

		// Dispatch desk endpoints
		oversight := emergency.Group("/")
		oversight.Use(authMiddleware.RequireRole(models.UserTypeController))
		{
			oversight.GET("/active-alerts", emergencyController.GetActiveAlerts)
			oversight.POST("/alerts/:alertId/resolve", emergencyController.Resolve)
			oversight.GET("/statistics", emergencyController.GetStatistics)
		}
	}
}
