package controllers

import (
	"aegis/services"
	"aegis/utils"
	"aegis/websocket"

	"github.com/gin-gonic/gin"
)

type WebSocketController struct {
	hub          *websocket.Hub
	alertService *services.AlertService
}

func NewWebSocketController(hub *websocket.Hub, alertService *services.AlertService) *WebSocketController {
	return &WebSocketController{
		hub:          hub,
		alertService: alertService,
	}
}

// Subscribe joins the live event stream for one alert. Only callers
// who can read the alert may join its room; auth middleware has
// already validated the token.
func (wc *WebSocketController) Subscribe(c *gin.Context) {
	alertID := c.Param("alertId")

	if _, err := wc.alertService.GetDetail(c.Request.Context(), utils.GetUserID(c), c.GetString("userRole"), alertID); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	websocket.ServeWS(wc.hub, c, alertID, utils.GetUserID(c))
}
