package routes

import (
	"aegis/controllers"
	"aegis/middleware"
	"aegis/models"

	"github.com/gin-gonic/gin"
)

// SetupAuthRoutes configures authentication and account routes.
func SetupAuthRoutes(router *gin.RouterGroup, authController *controllers.AuthController, responderController *controllers.ResponderController, authMiddleware *middleware.AuthMiddleware) {
	auth := router.Group("/auth")

	// Public authentication endpoints
	auth.POST("/register", authController.Register)
	auth.POST("/login", authController.Login)
	auth.POST("/refresh", authController.RefreshToken)

	protected := auth.Group("/")
	protected.Use(authMiddleware.RequireAuth())
	{
		protected.POST("/logout", authController.Logout)
		protected.GET("/status", authController.GetStatus)
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)
		protected.POST("/change-password", authController.ChangePassword)
		protected.POST("/deactivation-pin", authController.SetDeactivationPIN)

		// Responder directory, available to any authenticated caller.
		protected.GET("/responders", responderController.ListAvailable)
		protected.PUT("/responders/:id/status",
			authMiddleware.RequireRole(models.UserTypeController),
			responderController.SetAvailabilityFor)
	}
}
