package services

import (
	"context"
	"time"

	"aegis/models"
	"aegis/repositories"
	"aegis/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VideoService struct {
	videoRepo *repositories.VideoRepository
	alertRepo *repositories.AlertRepository
}

func NewVideoService(videoRepo *repositories.VideoRepository, alertRepo *repositories.AlertRepository) *VideoService {
	return &VideoService{
		videoRepo: videoRepo,
		alertRepo: alertRepo,
	}
}

// Upload registers an evidence recording. When an alert id is given the
// video is linked to it, but standalone uploads are allowed too.
func (vs *VideoService) Upload(ctx context.Context, userID string, req models.UploadVideoRequest, fileURL, fileName string, fileSize int64) (*models.VideoEvidence, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	video := models.VideoEvidence{
		UserID:    uid,
		FileURL:   fileURL,
		FileName:  fileName,
		FileSize:  fileSize,
		Duration:  req.Duration,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Status:    models.VideoStatusPendingReview,
	}

	if req.CapturedAt.IsZero() {
		video.CapturedAt = time.Now()
	} else {
		video.CapturedAt = req.CapturedAt
	}

	if req.AlertID != "" {
		alert, err := vs.alertRepo.GetByAlertID(ctx, req.AlertID)
		if err != nil {
			return nil, utils.NewNotFoundError("alert")
		}
		if alert.UserID != uid {
			return nil, utils.NewForbiddenError("alert belongs to another user")
		}
		video.AlertID = &alert.ID
	}

	if err := vs.videoRepo.Create(ctx, &video); err != nil {
		return nil, err
	}

	return &video, nil
}

func (vs *VideoService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]models.VideoEvidence, int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, utils.NewValidationError("invalid user ID")
	}

	return vs.videoRepo.List(ctx, bson.M{"userId": uid}, page, pageSize)
}

// ListAll is the controller review queue, filterable by status.
func (vs *VideoService) ListAll(ctx context.Context, status string, page, pageSize int) ([]models.VideoEvidence, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	return vs.videoRepo.List(ctx, filter, page, pageSize)
}

func (vs *VideoService) Get(ctx context.Context, userID, role, videoID string) (*models.VideoEvidence, error) {
	video, err := vs.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, utils.NewNotFoundError("video")
	}

	if role != models.UserTypeController && role != models.UserTypeAdmin && video.UserID.Hex() != userID {
		return nil, utils.NewForbiddenError("video belongs to another user")
	}

	return video, nil
}

// GetByAlert lists the evidence linked to an alert, with the same
// caller scoping as the alert record itself.
func (vs *VideoService) GetByAlert(ctx context.Context, callerID, callerRole, alertID string) ([]models.VideoEvidence, error) {
	alert, err := vs.alertRepo.GetByAlertID(ctx, alertID)
	if err != nil {
		return nil, utils.NewNotFoundError("alert")
	}

	responses, err := vs.alertRepo.GetResponses(ctx, alert.ID)
	if err != nil {
		return nil, err
	}

	if !callerCanAccessAlert(callerID, callerRole, alert, responses) {
		return nil, utils.NewNotFoundError("alert")
	}

	return vs.videoRepo.GetByAlert(ctx, alert.ID)
}

func (vs *VideoService) UpdateStatus(ctx context.Context, videoID string, req models.UpdateVideoStatusRequest) (*models.VideoEvidence, error) {
	video, err := vs.videoRepo.GetByID(ctx, videoID)
	if err != nil {
		return nil, utils.NewNotFoundError("video")
	}

	if video.Status == req.Status {
		return nil, utils.NewConflictError("video is already in this status")
	}

	if err := vs.videoRepo.UpdateStatus(ctx, video.ID, req.Status); err != nil {
		return nil, err
	}

	return vs.videoRepo.GetByID(ctx, videoID)
}

func (vs *VideoService) Delete(ctx context.Context, userID, videoID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return utils.NewValidationError("invalid user ID")
	}

	vid, err := primitive.ObjectIDFromHex(videoID)
	if err != nil {
		return utils.NewValidationError("invalid video ID")
	}

	if err := vs.videoRepo.Delete(ctx, vid, uid); err != nil {
		return utils.NewNotFoundError("video")
	}

	return nil
}
