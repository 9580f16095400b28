package routes

import (
	"aegis/controllers"
	"aegis/middleware"

	"github.com/gin-gonic/gin"
)

// SetupSafeRouteRoutes configures safe route planning routes.
func SetupSafeRouteRoutes(router *gin.RouterGroup, safeRouteController *controllers.SafeRouteController, authMiddleware *middleware.AuthMiddleware) {
	safeRoute := router.Group("/safe-route")
	safeRoute.Use(authMiddleware.RequireAuth())
	{
		safeRoute.POST("/route", safeRouteController.PlanRoute)
		safeRoute.POST("/locations", safeRouteController.CreateLocation)
		safeRoute.GET("/locations", safeRouteController.ListLocations)
		safeRoute.DELETE("/locations/:id", safeRouteController.DeleteLocation)
	}
}
