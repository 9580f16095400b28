package routes

import (
	"aegis/controllers"
	"aegis/middleware"
	"aegis/models"

	"github.com/gin-gonic/gin"
)

// SetupResponderRoutes configures field responder routes.
func SetupResponderRoutes(router *gin.RouterGroup, responderController *controllers.ResponderController, authMiddleware *middleware.AuthMiddleware) {
	responder := router.Group("/responder")
	responder.Use(authMiddleware.RequireAuth())
	responder.Use(authMiddleware.RequireRole(models.UserTypeAgent))
	{
		responder.POST("/update-status", responderController.UpdateStatus)
		responder.GET("/assignments", responderController.GetAssignments)
		responder.GET("/availability", responderController.GetAvailability)
		responder.PUT("/availability", responderController.SetAvailability)
	}
}
