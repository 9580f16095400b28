package controllers

import (
	"fmt"
	"path/filepath"
	"strconv"

	"aegis/models"
	"aegis/services"
	"aegis/utils"

	"github.com/gin-gonic/gin"
)

type IncidentController struct {
	incidentService *services.IncidentService
	validator       *utils.ValidationService
	mediaDir        string
}

func NewIncidentController(incidentService *services.IncidentService, mediaDir string) *IncidentController {
	return &IncidentController{
		incidentService: incidentService,
		validator:       utils.NewValidationService(),
		mediaDir:        mediaDir,
	}
}

func (ic *IncidentController) Submit(c *gin.Context) {
	var req models.SubmitIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := ic.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	report, err := ic.incidentService.Submit(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Incident report submitted", report)
}

func (ic *IncidentController) ListMine(c *gin.Context) {
	page, pageSize := parsePagination(c)

	reports, total, err := ic.incidentService.ListMine(c.Request.Context(), utils.GetUserID(c), page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Incident reports", reports, utils.CreatePaginationMeta(page, pageSize, total))
}

func (ic *IncidentController) ListAll(c *gin.Context) {
	page, pageSize := parsePagination(c)

	reports, total, err := ic.incidentService.ListAll(c.Request.Context(),
		c.Query("status"), c.Query("type"), page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Incident reports", reports, utils.CreatePaginationMeta(page, pageSize, total))
}

func (ic *IncidentController) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	reports, err := ic.incidentService.ListRecent(c.Request.Context(), limit)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Recent incident reports", reports)
}

func (ic *IncidentController) Get(c *gin.Context) {
	report, err := ic.incidentService.Get(c.Request.Context(),
		utils.GetUserID(c), c.GetString("userRole"), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Incident report", report)
}

func (ic *IncidentController) UpdateStatus(c *gin.Context) {
	var req models.UpdateIncidentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := ic.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	report, err := ic.incidentService.UpdateStatus(c.Request.Context(), utils.GetUserID(c), c.Param("id"), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Incident status updated", report)
}

func (ic *IncidentController) AttachMedia(c *gin.Context) {
	mediaType := c.PostForm("media_type")
	if mediaType == "" {
		mediaType = "photo"
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Media file is required")
		return
	}

	fileName := fmt.Sprintf("incident-%s-%s%s", c.Param("id"), utils.GenerateUUID(), filepath.Ext(file.Filename))
	dest := filepath.Join(ic.mediaDir, fileName)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to store media file")
		return
	}

	media, err := ic.incidentService.AttachMedia(c.Request.Context(), utils.GetUserID(c), c.Param("id"),
		mediaType, "/media/"+fileName, file.Filename, file.Size)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Media attached", media)
}

func (ic *IncidentController) GetMedia(c *gin.Context) {
	media, err := ic.incidentService.GetMedia(c.Request.Context(),
		utils.GetUserID(c), c.GetString("userRole"), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Incident media", media)
}

func (ic *IncidentController) GetUpdates(c *gin.Context) {
	updates, err := ic.incidentService.GetUpdates(c.Request.Context(),
		utils.GetUserID(c), c.GetString("userRole"), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Incident updates", updates)
}

func (ic *IncidentController) GetStatistics(c *gin.Context) {
	stats, err := ic.incidentService.GetStatistics(c.Request.Context())
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Incident statistics", stats)
}
