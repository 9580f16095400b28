package services

import (
	"context"
	"fmt"
	"time"

	"aegis/models"
	"aegis/repositories"
	"aegis/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CheckInService struct {
	checkinRepo         *repositories.CheckInRepository
	contactRepo         *repositories.ContactRepository
	userRepo            *repositories.UserRepository
	notificationService *NotificationService
}

func NewCheckInService(
	checkinRepo *repositories.CheckInRepository,
	contactRepo *repositories.ContactRepository,
	userRepo *repositories.UserRepository,
	notificationService *NotificationService,
) *CheckInService {
	return &CheckInService{
		checkinRepo:         checkinRepo,
		contactRepo:         contactRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (cs *CheckInService) Schedule(ctx context.Context, userID string, req models.ScheduleCheckInRequest) (*models.CheckInView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	if req.ScheduledAt.Before(time.Now()) {
		return nil, utils.NewValidationError("scheduled time must be in the future")
	}

	checkin := models.SafetyCheckIn{
		UserID:      uid,
		Status:      models.CheckInStatusPending,
		ScheduledAt: req.ScheduledAt,
		Message:     req.Message,
	}

	if err := cs.checkinRepo.Create(ctx, &checkin); err != nil {
		return nil, err
	}

	return toCheckInView(&checkin), nil
}

// Respond marks a pending check-in safe. Missed check-ins can still be
// answered late; the missed status is kept for the history.
func (cs *CheckInService) Respond(ctx context.Context, userID, checkinID string, req models.ManualCheckInRequest) (*models.CheckInView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	checkin, err := cs.checkinRepo.GetByID(ctx, checkinID)
	if err != nil {
		return nil, utils.NewNotFoundError("check-in")
	}

	if checkin.UserID != uid {
		return nil, utils.NewForbiddenError("check-in belongs to another user")
	}

	if checkin.Status != models.CheckInStatusPending {
		return nil, utils.NewConflictError("check-in has already been resolved")
	}

	now := time.Now()
	update := bson.M{
		"status":      models.CheckInStatusSafe,
		"respondedAt": now,
	}
	if req.Message != "" {
		update["message"] = req.Message
	}
	if req.Latitude != nil && req.Longitude != nil {
		update["latitude"] = *req.Latitude
		update["longitude"] = *req.Longitude
	}

	if err := cs.checkinRepo.Update(ctx, checkin.ID, update); err != nil {
		return nil, err
	}

	updated, err := cs.checkinRepo.GetByID(ctx, checkinID)
	if err != nil {
		return nil, err
	}

	return toCheckInView(updated), nil
}

// CheckInNow records an unprompted "I am safe" entry.
func (cs *CheckInService) CheckInNow(ctx context.Context, userID string, req models.ManualCheckInRequest) (*models.CheckInView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	now := time.Now()
	checkin := models.SafetyCheckIn{
		UserID:      uid,
		Status:      models.CheckInStatusSafe,
		ScheduledAt: now,
		RespondedAt: &now,
		Message:     req.Message,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
	}

	if err := cs.checkinRepo.Create(ctx, &checkin); err != nil {
		return nil, err
	}

	return toCheckInView(&checkin), nil
}

func (cs *CheckInService) History(ctx context.Context, userID string, page, pageSize int) ([]models.CheckInView, int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, utils.NewValidationError("invalid user ID")
	}

	checkins, total, err := cs.checkinRepo.GetByUser(ctx, uid, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	views := make([]models.CheckInView, 0, len(checkins))
	for i := range checkins {
		views = append(views, *toCheckInView(&checkins[i]))
	}

	return views, total, nil
}

func (cs *CheckInService) GetSettings(ctx context.Context, userID string) (*models.SafetyCheckSettings, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	settings, err := cs.checkinRepo.GetSettings(ctx, uid)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = &models.SafetyCheckSettings{
			UserID:        uid,
			Enabled:       false,
			IntervalHours: 24,
			NotifyContact: true,
		}
	}

	return settings, nil
}

func (cs *CheckInService) UpdateSettings(ctx context.Context, userID string, req models.UpdateCheckInSettingsRequest) (*models.SafetyCheckSettings, error) {
	settings, err := cs.GetSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.IntervalHours != nil {
		settings.IntervalHours = *req.IntervalHours
	}
	if req.NotifyContact != nil {
		settings.NotifyContact = *req.NotifyContact
	}

	if err := cs.checkinRepo.UpsertSettings(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// SweepOverdue marks pending check-ins past the grace window as missed
// and notifies the user's emergency contacts. Called by the background
// worker.
func (cs *CheckInService) SweepOverdue(ctx context.Context) int {
	cutoff := time.Now().Add(-models.CheckInOverdueGrace)

	overdue, err := cs.checkinRepo.GetPendingBefore(ctx, cutoff)
	if err != nil {
		logrus.Error("Overdue sweep query failed: ", err)
		return 0
	}

	missed := 0
	for i := range overdue {
		marked, err := cs.checkinRepo.MarkMissed(ctx, overdue[i].ID)
		if err != nil {
			logrus.Warnf("Failed to mark check-in %s missed: %v", overdue[i].ID.Hex(), err)
			continue
		}
		if !marked {
			continue
		}

		missed++
		cs.notifyMissed(ctx, &overdue[i])
	}

	return missed
}

func (cs *CheckInService) notifyMissed(ctx context.Context, checkin *models.SafetyCheckIn) {
	user, err := cs.userRepo.GetByObjectID(ctx, checkin.UserID)
	if err != nil {
		logrus.Warn("Failed to load user for missed check-in: ", err)
		return
	}

	cs.notificationService.Notify(ctx, user.ID, nil,
		models.NotificationCheckInMissed,
		"Missed safety check-in",
		fmt.Sprintf("Your check-in scheduled for %s was missed", checkin.ScheduledAt.Format(time.RFC3339)),
		nil)

	settings, err := cs.checkinRepo.GetSettings(ctx, user.ID)
	if err != nil || (settings != nil && !settings.NotifyContact) {
		return
	}

	contacts, err := cs.contactRepo.GetEmergencyContacts(ctx, user.ID)
	if err != nil {
		logrus.Warn("Failed to load contacts for missed check-in: ", err)
		return
	}

	body := fmt.Sprintf("%s missed a scheduled safety check-in at %s.",
		user.FullName, checkin.ScheduledAt.Format("15:04 Jan 2"))
	for _, contact := range contacts {
		cs.notificationService.NotifySMS(ctx, contact.Phone, body)
	}
}

func toCheckInView(checkin *models.SafetyCheckIn) *models.CheckInView {
	return &models.CheckInView{
		SafetyCheckIn: *checkin,
		IsOverdue:     checkin.IsOverdue(),
	}
}
