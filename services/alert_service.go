package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"aegis/models"
	"aegis/repositories"
	"aegis/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AlertBroadcaster pushes live events to websocket subscribers of an alert.
type AlertBroadcaster interface {
	BroadcastToAlert(alertID string, event string, payload interface{})
}

// WrongPINError carries the failed-attempt counter back to the handler.
// The response keeps the fake screen up so the alert stays covert.
type WrongPINError struct {
	Attempts int
}

func (e *WrongPINError) Error() string {
	return fmt.Sprintf("incorrect deactivation PIN (attempt %d)", e.Attempts)
}

type AlertService struct {
	alertRepo           AlertStore
	userRepo            UserStore
	contactRepo         ContactStore
	notificationService *NotificationService
	broadcaster         AlertBroadcaster
	maxResponders       int
}

func NewAlertService(
	alertRepo AlertStore,
	userRepo UserStore,
	contactRepo ContactStore,
	notificationService *NotificationService,
	broadcaster AlertBroadcaster,
	maxResponders int,
) *AlertService {
	return &AlertService{
		alertRepo:           alertRepo,
		userRepo:            userRepo,
		contactRepo:         contactRepo,
		notificationService: notificationService,
		broadcaster:         broadcaster,
		maxResponders:       maxResponders,
	}
}

// Activate creates an alert, assigns the nearest available responders
// and fans out notifications. Notification failures never fail the
// activation.
func (s *AlertService) Activate(ctx context.Context, userID string, req models.ActivateAlertRequest) (*models.ActivateAlertResponse, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	if existing, err := s.alertRepo.GetActiveByUser(ctx, uid); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, utils.NewConflictError("an alert is already active for this user")
	}

	user, err := s.userRepo.GetByObjectID(ctx, uid)
	if err != nil {
		return nil, utils.NewNotFoundError("user")
	}

	severity := req.Severity
	if severity == "" {
		severity = "high"
	}

	alert := models.EmergencyAlert{
		AlertID:          utils.GenerateAlertID(),
		UserID:           uid,
		Status:           models.AlertStatusActive,
		ActivationMethod: req.ActivationMethod,
		IsSilent:         req.IsSilent,
		FakeScreenActive: true,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Address:          req.Address,
		EmergencyType:    req.EmergencyType,
		Severity:         severity,
		Description:      req.Description,
	}

	// Creation, initial location and assignment commit or roll back
	// together. Individual responder failures inside assignResponders
	// are logged and skipped, they do not abort the activation.
	var assigned int
	err = s.alertRepo.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.alertRepo.Create(txCtx, &alert); err != nil {
			return err
		}

		if req.Latitude != nil && req.Longitude != nil {
			location := models.LocationUpdate{
				AlertID:   alert.ID,
				Latitude:  *req.Latitude,
				Longitude: *req.Longitude,
			}
			if err := s.alertRepo.AddLocationUpdate(txCtx, &location); err != nil {
				return err
			}
		}

		assigned = s.assignResponders(txCtx, &alert)
		return nil
	})
	if err != nil {
		logrus.Error("Failed to activate alert: ", err)
		return nil, utils.NewServiceError("INTERNAL_ERROR", "failed to activate alert")
	}

	contactsNotified := s.notifyContacts(ctx, user, &alert)

	s.notificationService.Notify(ctx, uid, &alert.ID, models.NotificationAlertActivated,
		"Emergency alert activated",
		fmt.Sprintf("Alert %s: %d responders assigned, %d contacts notified.", alert.AlertID, assigned, contactsNotified),
		map[string]interface{}{
			"alert_id":            alert.AlertID,
			"responders_assigned": assigned,
			"contacts_notified":   contactsNotified,
		})

	s.broadcaster.BroadcastToAlert(alert.AlertID, "alert_activated", alert)

	logrus.WithFields(logrus.Fields{
		"alertId":    alert.AlertID,
		"userId":     userID,
		"responders": assigned,
		"contacts":   contactsNotified,
	}).Info("Emergency alert activated")

	return &models.ActivateAlertResponse{
		AlertID:            alert.AlertID,
		RespondersAssigned: assigned,
		ContactsNotified:   contactsNotified,
		FakeScreenActive:   alert.FakeScreenActive,
		ActivatedAt:        alert.ActivatedAt,
	}, nil
}

// assignResponders picks up to maxResponders available agents sorted by
// distance from the alert. Agents without coordinates sort last and get
// a position-based fallback ETA.
func (s *AlertService) assignResponders(ctx context.Context, alert *models.EmergencyAlert) int {
	agents, err := s.userRepo.GetActiveAgents(ctx, "")
	if err != nil {
		logrus.Error("Failed to load responders: ", err)
		return 0
	}

	available, err := s.userRepo.GetAvailableResponderIDs(ctx)
	if err != nil {
		logrus.Error("Failed to load responder availability: ", err)
		return 0
	}

	type candidate struct {
		agent    models.User
		distance *float64
	}

	hasLocation := alert.Latitude != nil && alert.Longitude != nil

	candidates := make([]candidate, 0, len(agents))
	for _, agent := range agents {
		if !available[agent.ID] {
			continue
		}
		c := candidate{agent: agent}
		if hasLocation {
			// A located alert only considers responders we can route.
			if agent.Latitude == nil || agent.Longitude == nil {
				continue
			}
			d := utils.HaversineKm(*alert.Latitude, *alert.Longitude, *agent.Latitude, *agent.Longitude)
			c.distance = &d
		}
		candidates = append(candidates, c)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].distance, candidates[j].distance
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	assigned := 0
	for i, c := range candidates {
		if assigned >= s.maxResponders {
			break
		}

		eta := utils.FallbackETAMinutes(i)
		if c.distance != nil {
			eta = utils.EstimateETAMinutes(*c.distance, c.agent.ResponderType)
		}

		response := models.EmergencyResponse{
			AlertID:     alert.ID,
			ResponderID: c.agent.ID,
			Status:      models.ResponseStatusNotified,
			ETAMinutes:  eta,
			DistanceKM:  c.distance,
		}

		if err := s.alertRepo.CreateResponse(ctx, &response); err != nil {
			if err != repositories.ErrDuplicateResponse {
				logrus.Warnf("Failed to assign responder %s: %v", c.agent.ID.Hex(), err)
			}
			continue
		}

		if err := s.userRepo.SetAvailability(ctx, c.agent.ID, models.AvailabilityBusy); err != nil {
			logrus.Warnf("Failed to mark responder %s busy: %v", c.agent.ID.Hex(), err)
		}

		s.notificationService.Notify(ctx, c.agent.ID, &alert.ID,
			models.NotificationResponderAssigned,
			"Emergency assignment",
			fmt.Sprintf("You have been assigned to alert %s, ETA %d minutes", alert.AlertID, eta),
			map[string]interface{}{"alert_id": alert.AlertID, "eta_minutes": eta})

		assigned++
	}

	return assigned
}

func (s *AlertService) notifyContacts(ctx context.Context, user *models.User, alert *models.EmergencyAlert) int {
	contacts, err := s.contactRepo.GetEmergencyContacts(ctx, user.ID)
	if err != nil {
		logrus.Error("Failed to load emergency contacts: ", err)
		return 0
	}

	body := fmt.Sprintf("%s triggered an emergency alert (%s).", user.FullName, alert.AlertID)
	if alert.Latitude != nil && alert.Longitude != nil {
		body += fmt.Sprintf(" Last known position: %.5f, %.5f", *alert.Latitude, *alert.Longitude)
	}

	notified := 0
	for _, contact := range contacts {
		s.notificationService.NotifySMS(ctx, contact.Phone, body)
		notified++
	}

	return notified
}

// Deactivate verifies the duress PIN. Every attempt is written to the
// audit log before evaluation; three or more failures alert all admins
// about possible coercion.
func (s *AlertService) Deactivate(ctx context.Context, userID string, req models.DeactivateAlertRequest) (*models.DeactivateAlertResponse, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	alert, err := s.alertRepo.GetByAlertID(ctx, req.AlertID)
	if err != nil {
		return nil, utils.NewNotFoundError("alert")
	}

	if alert.UserID != uid {
		return nil, utils.NewForbiddenError("alert belongs to another user")
	}

	if alert.Status != models.AlertStatusActive {
		return nil, utils.NewConflictError("alert is not active")
	}

	user, err := s.userRepo.GetByObjectID(ctx, uid)
	if err != nil {
		return nil, utils.NewNotFoundError("user")
	}

	success := req.PIN == user.DeactivationPIN

	attempt := models.DeactivationAttempt{
		AlertID:    alert.ID,
		UserID:     uid,
		Success:    success,
		DeviceInfo: req.DeviceInfo,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
	}
	if err := s.alertRepo.RecordDeactivationAttempt(ctx, &attempt); err != nil {
		logrus.Warn("Failed to record deactivation attempt: ", err)
	}

	if !success {
		attempts, err := s.alertRepo.IncrementDeactivationAttempts(ctx, req.AlertID)
		if err != nil {
			return nil, err
		}

		if attempts >= 3 {
			s.notifyAdminsOfCoercion(ctx, user, alert, attempts)
		}

		return nil, &WrongPINError{Attempts: attempts}
	}

	if err := s.alertRepo.Update(ctx, req.AlertID, bson.M{
		"status":           models.AlertStatusCancelled,
		"cancelledAt":      time.Now(),
		"fakeScreenActive": false,
	}); err != nil {
		return nil, err
	}

	cancelled, err := s.alertRepo.CancelOpenResponses(ctx, alert.ID)
	if err != nil {
		logrus.Error("Failed to cancel open responses: ", err)
	}
	for _, responderID := range cancelled {
		if err := s.userRepo.SetAvailability(ctx, responderID, models.AvailabilityAvailable); err != nil {
			logrus.Warnf("Failed to release responder %s: %v", responderID.Hex(), err)
		}
		s.notificationService.Notify(ctx, responderID, &alert.ID,
			models.NotificationAlertCancelled,
			"Alert cancelled",
			fmt.Sprintf("Alert %s was deactivated by the user", alert.AlertID), nil)
	}

	s.notificationService.Notify(ctx, uid, &alert.ID,
		models.NotificationAlertCancelled,
		"Alert deactivated",
		fmt.Sprintf("Your emergency alert %s was deactivated, %d responders stood down", alert.AlertID, len(cancelled)),
		map[string]interface{}{"alert_id": alert.AlertID, "responses_cancelled": len(cancelled)})

	updated, err := s.alertRepo.GetByAlertID(ctx, req.AlertID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToAlert(alert.AlertID, "alert_cancelled", updated)

	logrus.WithFields(logrus.Fields{
		"alertId":   alert.AlertID,
		"cancelled": len(cancelled),
	}).Info("Emergency alert deactivated")

	return &models.DeactivateAlertResponse{
		AlertID:            updated.AlertID,
		Status:             updated.Status,
		CancelledAt:        updated.CancelledAt,
		ResponsesCancelled: len(cancelled),
	}, nil
}

func (s *AlertService) notifyAdminsOfCoercion(ctx context.Context, user *models.User, alert *models.EmergencyAlert, attempts int) {
	admins, err := s.userRepo.GetByRole(ctx, models.UserTypeAdmin)
	if err != nil {
		logrus.Error("Failed to load admins: ", err)
		return
	}

	message := fmt.Sprintf("%d failed PIN attempts on alert %s by %s. Possible coercion.",
		attempts, alert.AlertID, user.FullName)

	for _, admin := range admins {
		s.notificationService.Notify(ctx, admin.ID, &alert.ID,
			models.NotificationPossibleCoercion,
			"Possible coercion detected",
			message,
			map[string]interface{}{"alert_id": alert.AlertID, "attempts": attempts})
	}
}

// UpdateLocation appends a position sample. Rejected once the alert has
// left the active state.
func (s *AlertService) UpdateLocation(ctx context.Context, userID string, req models.UpdateLocationRequest) (*models.LocationUpdate, error) {
	alert, err := s.ownedActiveAlert(ctx, userID, req.AlertID)
	if err != nil {
		return nil, err
	}

	if !utils.IsValidCoordinate(req.Latitude, req.Longitude) {
		return nil, utils.NewValidationError("coordinates out of range")
	}

	location := models.LocationUpdate{
		AlertID:   alert.ID,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
		Speed:     req.Speed,
		Altitude:  req.Altitude,
		Heading:   req.Heading,
	}

	if err := s.alertRepo.AddLocationUpdate(ctx, &location); err != nil {
		return nil, err
	}

	if err := s.alertRepo.Update(ctx, alert.AlertID, bson.M{
		"latitude":  req.Latitude,
		"longitude": req.Longitude,
	}); err != nil {
		logrus.Warn("Failed to update alert position: ", err)
	}

	s.notifyAssignedResponders(ctx, alert, models.NotificationLocationUpdate,
		"Location update",
		fmt.Sprintf("New position reported for alert %s", alert.AlertID))
	s.broadcaster.BroadcastToAlert(alert.AlertID, "location_update", location)

	return &location, nil
}

// UploadMedia records a covert capture against an active alert. The
// handler has already persisted the file to disk.
func (s *AlertService) UploadMedia(ctx context.Context, userID string, req models.UploadMediaRequest, fileURL, fileName string, fileSize int64) (*models.MediaCapture, error) {
	alert, err := s.ownedActiveAlert(ctx, userID, req.AlertID)
	if err != nil {
		return nil, err
	}

	capture := models.MediaCapture{
		AlertID:   alert.ID,
		MediaType: req.MediaType,
		FileURL:   fileURL,
		FileName:  fileName,
		FileSize:  fileSize,
		Duration:  req.Duration,
	}

	if err := s.alertRepo.AddMediaCapture(ctx, &capture); err != nil {
		return nil, err
	}

	s.notifyAssignedResponders(ctx, alert, models.NotificationMediaCaptured,
		"Media captured",
		fmt.Sprintf("New %s evidence on alert %s", capture.MediaType, alert.AlertID))
	s.broadcaster.BroadcastToAlert(alert.AlertID, "media_captured", capture)

	return &capture, nil
}

// notifyAssignedResponders fans one notification out to every
// non-terminal response on the alert. Failures stay local.
func (s *AlertService) notifyAssignedResponders(ctx context.Context, alert *models.EmergencyAlert, notifType, title, message string) {
	responses, err := s.alertRepo.GetResponses(ctx, alert.ID)
	if err != nil {
		logrus.Warn("Failed to load responses for fan-out: ", err)
		return
	}

	for i := range responses {
		if responses[i].IsTerminal() {
			continue
		}
		s.notificationService.Notify(ctx, responses[i].ResponderID, &alert.ID,
			notifType, title, message,
			map[string]interface{}{"alert_id": alert.AlertID})
	}
}

// Resolve closes an alert from the controller side.
func (s *AlertService) Resolve(ctx context.Context, alertID string) (*models.EmergencyAlert, error) {
	alert, err := s.alertRepo.GetByAlertID(ctx, alertID)
	if err != nil {
		return nil, utils.NewNotFoundError("alert")
	}

	if alert.Status != models.AlertStatusActive {
		return nil, utils.NewConflictError("alert is not active")
	}

	if err := s.alertRepo.Update(ctx, alertID, bson.M{
		"status":           models.AlertStatusResolved,
		"resolvedAt":       time.Now(),
		"fakeScreenActive": false,
	}); err != nil {
		return nil, err
	}

	cancelled, err := s.alertRepo.CancelOpenResponses(ctx, alert.ID)
	if err != nil {
		logrus.Error("Failed to cancel open responses: ", err)
	}
	for _, responderID := range cancelled {
		if err := s.userRepo.SetAvailability(ctx, responderID, models.AvailabilityAvailable); err != nil {
			logrus.Warnf("Failed to release responder %s: %v", responderID.Hex(), err)
		}
	}

	updated, err := s.alertRepo.GetByAlertID(ctx, alertID)
	if err != nil {
		return nil, err
	}

	s.broadcaster.BroadcastToAlert(alertID, "alert_resolved", updated)

	return updated, nil
}

// GetDetail returns the full alert record for its owner, an assigned
// responder, or oversight staff. Anyone else gets a not-found error so
// alert ids reveal nothing about other users' emergencies.
func (s *AlertService) GetDetail(ctx context.Context, callerID, callerRole, alertID string) (*models.AlertDetail, error) {
	alert, err := s.alertRepo.GetByAlertID(ctx, alertID)
	if err != nil {
		return nil, utils.NewNotFoundError("alert")
	}

	responses, err := s.alertRepo.GetResponses(ctx, alert.ID)
	if err != nil {
		return nil, err
	}

	if !callerCanAccessAlert(callerID, callerRole, alert, responses) {
		return nil, utils.NewNotFoundError("alert")
	}

	locations, err := s.alertRepo.GetLocationUpdates(ctx, alert.ID, 100)
	if err != nil {
		return nil, err
	}

	media, err := s.alertRepo.GetMediaCaptures(ctx, alert.ID)
	if err != nil {
		return nil, err
	}

	return &models.AlertDetail{
		Alert:     alert,
		Locations: locations,
		Media:     media,
		Responses: responses,
	}, nil
}

// callerCanAccessAlert reports whether a caller may read an alert's
// record: the alert owner, a responder assigned to it, or a user with
// an oversight role.
func callerCanAccessAlert(callerID, callerRole string, alert *models.EmergencyAlert, responses []models.EmergencyResponse) bool {
	if callerRole == models.UserTypeController || callerRole == models.UserTypeAdmin {
		return true
	}

	uid, err := primitive.ObjectIDFromHex(callerID)
	if err != nil {
		return false
	}

	if alert.UserID == uid {
		return true
	}

	for _, response := range responses {
		if response.ResponderID == uid {
			return true
		}
	}

	return false
}

func (s *AlertService) GetUserAlerts(ctx context.Context, userID string, page, pageSize int) ([]models.EmergencyAlert, int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, utils.NewValidationError("invalid user ID")
	}

	return s.alertRepo.GetByUser(ctx, uid, page, pageSize)
}

func (s *AlertService) GetActiveAlerts(ctx context.Context) ([]models.EmergencyAlert, error) {
	return s.alertRepo.GetActive(ctx)
}

func (s *AlertService) GetActiveForUser(ctx context.Context, userID string) (*models.EmergencyAlert, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	return s.alertRepo.GetActiveByUser(ctx, uid)
}

func (s *AlertService) GetStatistics(ctx context.Context) (map[string]int64, error) {
	return s.alertRepo.GetStatistics(ctx)
}

func (s *AlertService) ownedActiveAlert(ctx context.Context, userID, alertID string) (*models.EmergencyAlert, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	alert, err := s.alertRepo.GetByAlertID(ctx, alertID)
	if err != nil {
		return nil, utils.NewNotFoundError("alert")
	}

	if alert.UserID != uid {
		return nil, utils.NewForbiddenError("alert belongs to another user")
	}

	if alert.Status != models.AlertStatusActive {
		return nil, utils.NewConflictError("alert is not active")
	}

	return alert, nil
}
