package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"aegis/models"
	"aegis/services"
	"aegis/utils"

	"github.com/gin-gonic/gin"
)

type EmergencyController struct {
	alertService *services.AlertService
	validator    *utils.ValidationService
	mediaDir     string
}

func NewEmergencyController(alertService *services.AlertService, mediaDir string) *EmergencyController {
	return &EmergencyController{
		alertService: alertService,
		validator:    utils.NewValidationService(),
		mediaDir:     mediaDir,
	}
}

// Activate triggers a panic alert
// @Summary Activate an emergency alert
// @Tags Emergency
// @Accept json
// @Produce json
// @Param request body models.ActivateAlertRequest true "Activation data"
// @Success 201 {object} models.APIResponse{data=models.ActivateAlertResponse}
// @Router /emergency/activate [post]
func (ec *EmergencyController) Activate(c *gin.Context) {
	var req models.ActivateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := ec.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	response, err := ec.alertService.Activate(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Emergency alert activated", response)
}

// Deactivate verifies the PIN and cancels the alert. A wrong PIN
// returns 400 with the running attempt counter and the fake screen
// still flagged active.
func (ec *EmergencyController) Deactivate(c *gin.Context) {
	var req models.DeactivateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := ec.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	response, err := ec.alertService.Deactivate(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		var wrongPIN *services.WrongPINError
		if errors.As(err, &wrongPIN) {
			c.JSON(http.StatusBadRequest, models.WrongPINResponse{
				Attempts:         wrongPIN.Attempts,
				FakeScreenActive: true,
			})
			return
		}
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Emergency alert deactivated", response)
}

func (ec *EmergencyController) UpdateLocation(c *gin.Context) {
	var req models.UpdateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := ec.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	location, err := ec.alertService.UpdateLocation(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Location recorded", location)
}

// UploadMedia accepts a multipart capture for an active alert.
func (ec *EmergencyController) UploadMedia(c *gin.Context) {
	var req models.UploadMediaRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid form data")
		return
	}

	if validationErrors := ec.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Media file is required")
		return
	}

	fileName := fmt.Sprintf("%s-%s%s", req.AlertID, utils.GenerateUUID(), filepath.Ext(file.Filename))
	dest := filepath.Join(ec.mediaDir, fileName)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to store media file")
		return
	}

	capture, err := ec.alertService.UploadMedia(c.Request.Context(), utils.GetUserID(c), req,
		"/media/"+fileName, file.Filename, file.Size)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Media captured", capture)
}

func (ec *EmergencyController) GetActive(c *gin.Context) {
	alert, err := ec.alertService.GetActiveForUser(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	if alert == nil {
		utils.SuccessResponse(c, "No active alert", gin.H{"active": false})
		return
	}

	utils.SuccessResponse(c, "Active alert", gin.H{"active": true, "alert": alert})
}

func (ec *EmergencyController) GetHistory(c *gin.Context) {
	page, pageSize := parsePagination(c)

	alerts, total, err := ec.alertService.GetUserAlerts(c.Request.Context(), utils.GetUserID(c), page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Alert history", alerts, utils.CreatePaginationMeta(page, pageSize, total))
}

func (ec *EmergencyController) GetDetail(c *gin.Context) {
	detail, err := ec.alertService.GetDetail(c.Request.Context(), utils.GetUserID(c), c.GetString("userRole"), c.Param("alertId"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alert detail", detail)
}

// GetActiveAlerts is the controller dashboard listing.
func (ec *EmergencyController) GetActiveAlerts(c *gin.Context) {
	alerts, err := ec.alertService.GetActiveAlerts(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Active alerts", alerts)
}

func (ec *EmergencyController) Resolve(c *gin.Context) {
	alert, err := ec.alertService.Resolve(c.Request.Context(), c.Param("alertId"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alert resolved", alert)
}

func (ec *EmergencyController) GetStatistics(c *gin.Context) {
	stats, err := ec.alertService.GetStatistics(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alert statistics", stats)
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return page, pageSize
}
