package controllers

import (
	"aegis/models"
	"aegis/services"
	"aegis/utils"

	"github.com/gin-gonic/gin"
)

type CheckInController struct {
	checkinService *services.CheckInService
	validator      *utils.ValidationService
}

func NewCheckInController(checkinService *services.CheckInService) *CheckInController {
	return &CheckInController{
		checkinService: checkinService,
		validator:      utils.NewValidationService(),
	}
}

func (cc *CheckInController) Schedule(c *gin.Context) {
	var req models.ScheduleCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := cc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	checkin, err := cc.checkinService.Schedule(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Check-in scheduled", checkin)
}

func (cc *CheckInController) Respond(c *gin.Context) {
	var req models.ManualCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	checkin, err := cc.checkinService.Respond(c.Request.Context(), utils.GetUserID(c), c.Param("id"), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Checked in safe", checkin)
}

func (cc *CheckInController) CheckInNow(c *gin.Context) {
	var req models.ManualCheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	checkin, err := cc.checkinService.CheckInNow(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Checked in", checkin)
}

func (cc *CheckInController) History(c *gin.Context) {
	page, pageSize := parsePagination(c)

	checkins, total, err := cc.checkinService.History(c.Request.Context(), utils.GetUserID(c), page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Check-in history", checkins, utils.CreatePaginationMeta(page, pageSize, total))
}

func (cc *CheckInController) GetSettings(c *gin.Context) {
	settings, err := cc.checkinService.GetSettings(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Check-in settings", settings)
}

func (cc *CheckInController) UpdateSettings(c *gin.Context) {
	var req models.UpdateCheckInSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := cc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	settings, err := cc.checkinService.UpdateSettings(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Check-in settings updated", settings)
}
