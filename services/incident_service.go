package services

import (
	"context"
	"fmt"
	"time"

	"aegis/models"
	"aegis/repositories"
	"aegis/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type IncidentService struct {
	incidentRepo        *repositories.IncidentRepository
	notificationService *NotificationService
}

func NewIncidentService(incidentRepo *repositories.IncidentRepository, notificationService *NotificationService) *IncidentService {
	return &IncidentService{
		incidentRepo:        incidentRepo,
		notificationService: notificationService,
	}
}

func (is *IncidentService) Submit(ctx context.Context, userID string, req models.SubmitIncidentRequest) (*models.IncidentReport, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	report := models.IncidentReport{
		UserID:       uid,
		IncidentType: req.IncidentType,
		Title:        req.Title,
		Description:  req.Description,
		IncidentDate: req.IncidentDate,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Address:      req.Address,
		Status:       models.IncidentStatusSubmitted,
		IsAnonymous:  req.IsAnonymous,
	}

	if err := is.incidentRepo.Create(ctx, &report); err != nil {
		return nil, err
	}

	return &report, nil
}

func (is *IncidentService) Get(ctx context.Context, userID, role, incidentID string) (*models.IncidentReport, error) {
	report, err := is.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, utils.NewNotFoundError("incident")
	}

	if !canViewIncident(userID, role, report) {
		return nil, utils.NewForbiddenError("incident belongs to another user")
	}

	return report, nil
}

// ListMine returns the caller's own reports.
func (is *IncidentService) ListMine(ctx context.Context, userID string, page, pageSize int) ([]models.IncidentReport, int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, utils.NewValidationError("invalid user ID")
	}

	return is.incidentRepo.List(ctx, bson.M{"userId": uid}, page, pageSize)
}

// ListAll is the controller view over every report, filterable by
// status and type.
func (is *IncidentService) ListAll(ctx context.Context, status, incidentType string, page, pageSize int) ([]models.IncidentReport, int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	if incidentType != "" {
		filter["incidentType"] = incidentType
	}

	return is.incidentRepo.List(ctx, filter, page, pageSize)
}

// ListRecent returns reports submitted in the last 30 days, newest
// first, for the community awareness feed.
func (is *IncidentService) ListRecent(ctx context.Context, limit int) ([]models.IncidentReport, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	filter := bson.M{"createdAt": bson.M{"$gte": time.Now().AddDate(0, 0, -30)}}
	reports, _, err := is.incidentRepo.List(ctx, filter, 1, limit)
	return reports, err
}

// UpdateStatus moves a report through the review workflow and leaves an
// audit row naming who changed what.
func (is *IncidentService) UpdateStatus(ctx context.Context, reviewerID, incidentID string, req models.UpdateIncidentStatusRequest) (*models.IncidentReport, error) {
	rid, err := primitive.ObjectIDFromHex(reviewerID)
	if err != nil {
		return nil, utils.NewValidationError("invalid reviewer ID")
	}

	report, err := is.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, utils.NewNotFoundError("incident")
	}

	if report.Status == req.Status {
		return nil, utils.NewConflictError("incident is already in this status")
	}

	if err := is.incidentRepo.UpdateStatus(ctx, report.ID, req.Status); err != nil {
		return nil, err
	}

	update := models.IncidentUpdate{
		IncidentID: report.ID,
		UpdatedBy:  rid,
		OldStatus:  report.Status,
		NewStatus:  req.Status,
		Notes:      req.Notes,
	}
	if err := is.incidentRepo.AddUpdate(ctx, &update); err != nil {
		return nil, err
	}

	is.notificationService.Notify(ctx, report.UserID, nil,
		models.NotificationIncidentUpdate,
		"Incident report updated",
		fmt.Sprintf("Your report %q is now %s", report.Title, req.Status),
		map[string]interface{}{"incident_id": report.ID.Hex(), "status": req.Status})

	return is.incidentRepo.GetByID(ctx, incidentID)
}

func (is *IncidentService) AttachMedia(ctx context.Context, userID, incidentID, mediaType, fileURL, fileName string, fileSize int64) (*models.IncidentMedia, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	report, err := is.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, utils.NewNotFoundError("incident")
	}

	if report.UserID != uid {
		return nil, utils.NewForbiddenError("incident belongs to another user")
	}

	media := models.IncidentMedia{
		IncidentID: report.ID,
		MediaType:  mediaType,
		FileURL:    fileURL,
		FileName:   fileName,
		FileSize:   fileSize,
	}

	if err := is.incidentRepo.AddMedia(ctx, &media); err != nil {
		return nil, err
	}

	return &media, nil
}

func (is *IncidentService) GetUpdates(ctx context.Context, userID, role, incidentID string) ([]models.IncidentUpdate, error) {
	report, err := is.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, utils.NewNotFoundError("incident")
	}

	if !canViewIncident(userID, role, report) {
		return nil, utils.NewForbiddenError("incident belongs to another user")
	}

	return is.incidentRepo.GetUpdates(ctx, report.ID)
}

func (is *IncidentService) GetMedia(ctx context.Context, userID, role, incidentID string) ([]models.IncidentMedia, error) {
	report, err := is.incidentRepo.GetByID(ctx, incidentID)
	if err != nil {
		return nil, utils.NewNotFoundError("incident")
	}

	if !canViewIncident(userID, role, report) {
		return nil, utils.NewForbiddenError("incident belongs to another user")
	}

	return is.incidentRepo.GetMedia(ctx, report.ID)
}

func (is *IncidentService) GetStatistics(ctx context.Context) (*models.IncidentStatistics, error) {
	return is.incidentRepo.GetStatistics(ctx)
}

func canViewIncident(userID, role string, report *models.IncidentReport) bool {
	if role == models.UserTypeController || role == models.UserTypeAdmin {
		return true
	}
	return report.UserID.Hex() == userID
}
