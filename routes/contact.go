package routes

import (
	"aegis/controllers"
	"aegis/middleware"
	"aegis/models"

	"github.com/gin-gonic/gin"
)

// SetupContactRoutes configures emergency contact routes.
func SetupContactRoutes(router *gin.RouterGroup, contactController *controllers.ContactController, authMiddleware *middleware.AuthMiddleware) {
	contacts := router.Group("/contacts")
	contacts.Use(authMiddleware.RequireAuth())
	{
		contacts.POST("", contactController.Create)
		contacts.GET("", contactController.List)
		contacts.POST("/lookup-phone", contactController.LookupByPhone)
		contacts.GET("/:id", contactController.Get)
		contacts.PUT("/:id", contactController.Update)
		contacts.PUT("/:id/primary", contactController.SetPrimary)
		contacts.POST("/:id/test-alert", contactController.SendTestAlert)
		contacts.DELETE("/:id", contactController.Delete)

		contacts.GET("/emergency-info/:userId",
			authMiddleware.RequireRole(models.UserTypeController),
			contactController.GetEmergencyInfo)
	}
}
