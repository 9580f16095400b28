package routes

import (
	"aegis/controllers"
	"aegis/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCheckInRoutes configures safety check-in routes.
func SetupCheckInRoutes(router *gin.RouterGroup, checkinController *controllers.CheckInController, authMiddleware *middleware.AuthMiddleware) {
	checkins := router.Group("/checkins")
	checkins.Use(authMiddleware.RequireAuth())
	{
		checkins.POST("/schedule", checkinController.Schedule)
		checkins.POST("/checkin", checkinController.CheckInNow)
		checkins.POST("/:id/respond", checkinController.Respond)
		checkins.GET("/history", checkinController.History)
		checkins.GET("/settings", checkinController.GetSettings)
		checkins.PUT("/settings", checkinController.UpdateSettings)
	}
}
