package routes

import (
	"aegis/controllers"
	"aegis/middleware"

	"github.com/gin-gonic/gin"
)

// SetupWebSocketRoutes configures live alert room routes. Clients may
// pass the token as a query parameter because browsers cannot set
// headers on websocket upgrades.
func SetupWebSocketRoutes(router *gin.Engine, websocketController *controllers.WebSocketController, authMiddleware *middleware.AuthMiddleware) {
	ws := router.Group("/ws")
	ws.Use(authMiddleware.RequireAuth())
	{
		ws.GET("/alerts/:alertId", websocketController.Subscribe)
	}
}
