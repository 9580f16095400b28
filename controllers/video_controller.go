package controllers

import (
	"fmt"
	"path/filepath"

	"aegis/models"
	"aegis/services"
	"aegis/utils"

	"github.com/gin-gonic/gin"
)

type VideoController struct {
	videoService *services.VideoService
	validator    *utils.ValidationService
	mediaDir     string
}

func NewVideoController(videoService *services.VideoService, mediaDir string) *VideoController {
	return &VideoController{
		videoService: videoService,
		validator:    utils.NewValidationService(),
		mediaDir:     mediaDir,
	}
}

func (vc *VideoController) Upload(c *gin.Context) {
	var req models.UploadVideoRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid form data")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Video file is required")
		return
	}

	fileName := fmt.Sprintf("video-%s%s", utils.GenerateUUID(), filepath.Ext(file.Filename))
	dest := filepath.Join(vc.mediaDir, fileName)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		utils.InternalServerErrorResponse(c, "Failed to store video file")
		return
	}

	video, err := vc.videoService.Upload(c.Request.Context(), utils.GetUserID(c), req,
		"/media/"+fileName, file.Filename, file.Size)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Video uploaded", video)
}

func (vc *VideoController) ListMine(c *gin.Context) {
	page, pageSize := parsePagination(c)

	videos, total, err := vc.videoService.ListMine(c.Request.Context(), utils.GetUserID(c), page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Videos", videos, utils.CreatePaginationMeta(page, pageSize, total))
}

func (vc *VideoController) ListAll(c *gin.Context) {
	page, pageSize := parsePagination(c)

	videos, total, err := vc.videoService.ListAll(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "Videos", videos, utils.CreatePaginationMeta(page, pageSize, total))
}

func (vc *VideoController) Get(c *gin.Context) {
	video, err := vc.videoService.Get(c.Request.Context(),
		utils.GetUserID(c), c.GetString("userRole"), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Video", video)
}

func (vc *VideoController) GetByAlert(c *gin.Context) {
	videos, err := vc.videoService.GetByAlert(c.Request.Context(), utils.GetUserID(c), c.GetString("userRole"), c.Param("alertId"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Alert videos", videos)
}

func (vc *VideoController) UpdateStatus(c *gin.Context) {
	var req models.UpdateVideoStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := vc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	video, err := vc.videoService.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Video status updated", video)
}

func (vc *VideoController) Delete(c *gin.Context) {
	if err := vc.videoService.Delete(c.Request.Context(), utils.GetUserID(c), c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Video deleted", nil)
}
