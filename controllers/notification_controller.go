package controllers

import (
	"strconv"

	"aegis/services"
	"aegis/utils"

	"github.com/gin-gonic/gin"
)

type NotificationController struct {
	notificationService *services.NotificationService
}

func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

func (nc *NotificationController) List(c *gin.Context) {
	page, pageSize := parsePagination(c)
	unreadOnly, _ := strconv.ParseBool(c.DefaultQuery("unread", "false"))

	notifications, total, err := nc.notificationService.List(c.Request.Context(),
		utils.GetUserID(c), unreadOnly, page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Notifications", notifications, utils.CreatePaginationMeta(page, pageSize, total))
}

func (nc *NotificationController) MarkRead(c *gin.Context) {
	if err := nc.notificationService.MarkRead(c.Request.Context(), utils.GetUserID(c), c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Notification marked read", nil)
}

func (nc *NotificationController) MarkAllRead(c *gin.Context) {
	count, err := nc.notificationService.MarkAllRead(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Notifications marked read", gin.H{"marked": count})
}

func (nc *NotificationController) CountUnread(c *gin.Context) {
	count, err := nc.notificationService.CountUnread(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Unread count", gin.H{"unread": count})
}
