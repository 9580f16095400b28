package routes

import (
	"aegis/controllers"
	"aegis/middleware"

	"github.com/gin-gonic/gin"
)

// SetupNotificationRoutes configures notification inbox routes.
func SetupNotificationRoutes(router *gin.RouterGroup, notificationController *controllers.NotificationController, authMiddleware *middleware.AuthMiddleware) {
	notifications := router.Group("/notifications")
	notifications.Use(authMiddleware.RequireAuth())
	{
		notifications.GET("", notificationController.List)
		notifications.GET("/unread-count", notificationController.CountUnread)
		notifications.PUT("/:id/read", notificationController.MarkRead)
		notifications.PUT("/read-all", notificationController.MarkAllRead)
	}
}
