package controllers

import (
	"strconv"

	"aegis/models"
	"aegis/services"
	"aegis/utils"

	"github.com/gin-gonic/gin"
)

type ResponderController struct {
	responderService *services.ResponderService
	validator        *utils.ValidationService
}

func NewResponderController(responderService *services.ResponderService) *ResponderController {
	return &ResponderController{
		responderService: responderService,
		validator:        utils.NewValidationService(),
	}
}

// UpdateStatus advances an assignment through the response workflow.
func (rc *ResponderController) UpdateStatus(c *gin.Context) {
	var req models.UpdateResponseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := rc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	response, err := rc.responderService.UpdateStatus(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Response status updated", response)
}

func (rc *ResponderController) GetAssignments(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active", "false"))

	assignments, err := rc.responderService.GetAssignments(c.Request.Context(), utils.GetUserID(c), activeOnly)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Assignments", assignments)
}

func (rc *ResponderController) SetAvailability(c *gin.Context) {
	var req models.UpdateResponderAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := rc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := rc.responderService.SetAvailability(c.Request.Context(), utils.GetUserID(c), req.Status); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Availability updated", gin.H{"status": req.Status})
}

// SetAvailabilityFor lets the dispatch desk override another
// responder's availability.
func (rc *ResponderController) SetAvailabilityFor(c *gin.Context) {
	var req models.UpdateResponderAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := rc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := rc.responderService.SetAvailability(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Availability updated", gin.H{"status": req.Status})
}

func (rc *ResponderController) GetAvailability(c *gin.Context) {
	status, err := rc.responderService.GetAvailability(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Availability", gin.H{"status": status})
}

// ListAvailable returns available responders, distance-sorted when the
// caller supplies a reference point.
func (rc *ResponderController) ListAvailable(c *gin.Context) {
	var lat, lng *float64
	if v, err := strconv.ParseFloat(c.Query("latitude"), 64); err == nil {
		lat = &v
	}
	if v, err := strconv.ParseFloat(c.Query("longitude"), 64); err == nil {
		lng = &v
	}

	responders, err := rc.responderService.ListAvailable(c.Request.Context(), lat, lng)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Available responders", responders)
}

// ListAvailableForAlert ranks available responders by distance from an
// alert's position.
func (rc *ResponderController) ListAvailableForAlert(c *gin.Context) {
	responders, err := rc.responderService.ListAvailableForAlert(c.Request.Context(), utils.GetUserID(c), c.GetString("userRole"), c.Param("alertId"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Available responders", responders)
}
