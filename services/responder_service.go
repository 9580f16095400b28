package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"aegis/models"
	"aegis/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ResponderService struct {
	alertRepo           AlertStore
	userRepo            UserStore
	notificationService *NotificationService
	broadcaster         AlertBroadcaster
}

func NewResponderService(
	alertRepo AlertStore,
	userRepo UserStore,
	notificationService *NotificationService,
	broadcaster AlertBroadcaster,
) *ResponderService {
	return &ResponderService{
		alertRepo:           alertRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		broadcaster:         broadcaster,
	}
}

// UpdateStatus moves a response along the transition graph. Each state
// stamps its timestamp once; repeating a stamped state is rejected by
// the graph itself.
func (rs *ResponderService) UpdateStatus(ctx context.Context, responderID string, req models.UpdateResponseStatusRequest) (*models.EmergencyResponse, error) {
	rid, err := primitive.ObjectIDFromHex(responderID)
	if err != nil {
		return nil, utils.NewValidationError("invalid responder ID")
	}

	responseID, err := primitive.ObjectIDFromHex(req.ResponseID)
	if err != nil {
		return nil, utils.NewValidationError("invalid response ID")
	}

	response, err := rs.findResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}

	if response.ResponderID != rid {
		return nil, utils.NewForbiddenError("response belongs to another responder")
	}

	if !response.CanTransition(req.Status) {
		terr := &models.TransitionError{From: response.Status, To: req.Status}
		return nil, utils.NewConflictError(terr.Error())
	}

	now := time.Now()
	update := bson.M{"status": req.Status}
	switch req.Status {
	case models.ResponseStatusAccepted:
		update["acceptedAt"] = now
	case models.ResponseStatusEnRoute:
		update["enRouteAt"] = now
	case models.ResponseStatusOnScene:
		update["onSceneAt"] = now
	case models.ResponseStatusCompleted:
		update["completedAt"] = now
	case models.ResponseStatusCancelled:
		update["cancelledAt"] = now
	}
	if req.Notes != "" {
		update["notes"] = req.Notes
	}
	if req.ETAMinutes != nil {
		update["etaMinutes"] = *req.ETAMinutes
	}

	if err := rs.alertRepo.UpdateResponse(ctx, responseID, update); err != nil {
		return nil, err
	}

	updated, err := rs.findResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}

	if updated.IsTerminal() {
		if err := rs.userRepo.SetAvailability(ctx, rid, models.AvailabilityAvailable); err != nil {
			logrus.Warnf("Failed to release responder %s: %v", rid.Hex(), err)
		}
	}

	rs.afterTransition(ctx, updated)

	return updated, nil
}

// afterTransition notifies the alert owner and, when the last open
// response completes, resolves the alert.
func (rs *ResponderService) afterTransition(ctx context.Context, response *models.EmergencyResponse) {
	alert, err := rs.alertRepo.GetByObjectID(ctx, response.AlertID)
	if err != nil {
		logrus.Warn("Failed to load alert for response update: ", err)
		return
	}

	rs.notificationService.Notify(ctx, alert.UserID, &alert.ID,
		models.NotificationResponderUpdate,
		"Responder update",
		fmt.Sprintf("A responder on alert %s is now %s", alert.AlertID, response.Status),
		map[string]interface{}{"alert_id": alert.AlertID, "status": response.Status})

	rs.broadcaster.BroadcastToAlert(alert.AlertID, "responder_update", response)

	if response.Status != models.ResponseStatusCompleted || alert.Status != models.AlertStatusActive {
		return
	}

	open, err := rs.alertRepo.CountOpenResponses(ctx, alert.ID)
	if err != nil {
		logrus.Warn("Failed to count open responses: ", err)
		return
	}

	if open == 0 {
		if err := rs.alertRepo.Update(ctx, alert.AlertID, bson.M{
			"status":           models.AlertStatusResolved,
			"resolvedAt":       time.Now(),
			"fakeScreenActive": false,
		}); err != nil {
			logrus.Error("Failed to auto-resolve alert: ", err)
			return
		}

		rs.notificationService.Notify(ctx, alert.UserID, &alert.ID,
			models.NotificationAlertResolved,
			"Alert resolved",
			fmt.Sprintf("All responders completed on alert %s", alert.AlertID), nil)
		rs.broadcaster.BroadcastToAlert(alert.AlertID, "alert_resolved", bson.M{
			"alert_id": alert.AlertID,
			"status":   models.AlertStatusResolved,
		})
	}
}

// GetAssignments lists the responder's responses, active ones first.
func (rs *ResponderService) GetAssignments(ctx context.Context, responderID string, activeOnly bool) ([]models.EmergencyResponse, error) {
	rid, err := primitive.ObjectIDFromHex(responderID)
	if err != nil {
		return nil, utils.NewValidationError("invalid responder ID")
	}

	return rs.alertRepo.GetResponsesByResponder(ctx, rid, activeOnly)
}

// SetAvailability lets a responder toggle their own availability.
// Responders with open assignments cannot go available by hand.
func (rs *ResponderService) SetAvailability(ctx context.Context, responderID string, status string) error {
	rid, err := primitive.ObjectIDFromHex(responderID)
	if err != nil {
		return utils.NewValidationError("invalid responder ID")
	}

	if status == models.AvailabilityAvailable {
		open, err := rs.alertRepo.GetResponsesByResponder(ctx, rid, true)
		if err != nil {
			return err
		}
		if len(open) > 0 {
			return utils.NewConflictError("responder has open assignments")
		}
	}

	return rs.userRepo.SetAvailability(ctx, rid, status)
}

func (rs *ResponderService) GetAvailability(ctx context.Context, responderID string) (string, error) {
	rid, err := primitive.ObjectIDFromHex(responderID)
	if err != nil {
		return "", utils.NewValidationError("invalid responder ID")
	}

	return rs.userRepo.GetAvailability(ctx, rid)
}

// ListAvailable returns available responders sorted by distance from
// the given point. Responders without coordinates sort last.
func (rs *ResponderService) ListAvailable(ctx context.Context, lat, lng *float64) ([]models.AvailableResponder, error) {
	agents, err := rs.userRepo.GetActiveAgents(ctx, "")
	if err != nil {
		return nil, err
	}

	available, err := rs.userRepo.GetAvailableResponderIDs(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]models.AvailableResponder, 0, len(agents))
	for _, agent := range agents {
		if !available[agent.ID] {
			continue
		}

		row := models.AvailableResponder{
			ResponderID:   agent.ID.Hex(),
			Name:          agent.FullName,
			AgentID:       agent.AgentID,
			ResponderType: agent.ResponderType,
			Phone:         agent.Phone,
		}

		if lat != nil && lng != nil && agent.Latitude != nil && agent.Longitude != nil {
			d := utils.HaversineKm(*lat, *lng, *agent.Latitude, *agent.Longitude)
			row.DistanceKM = &d
			row.ETAMinutes = utils.EstimateETAMinutes(d, agent.ResponderType)
		} else {
			row.ETAMinutes = utils.FallbackETAMinutes(len(rows))
		}

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		di, dj := rows[i].DistanceKM, rows[j].DistanceKM
		if di == nil {
			return false
		}
		if dj == nil {
			return true
		}
		return *di < *dj
	})

	return rows, nil
}

// ListAvailableForAlert ranks available responders by distance from the
// alert's last known position. Scoped like the alert record itself.
func (rs *ResponderService) ListAvailableForAlert(ctx context.Context, callerID, callerRole, alertID string) ([]models.AvailableResponder, error) {
	alert, err := rs.alertRepo.GetByAlertID(ctx, alertID)
	if err != nil {
		return nil, utils.NewNotFoundError("alert")
	}

	responses, err := rs.alertRepo.GetResponses(ctx, alert.ID)
	if err != nil {
		return nil, err
	}

	if !callerCanAccessAlert(callerID, callerRole, alert, responses) {
		return nil, utils.NewNotFoundError("alert")
	}

	return rs.ListAvailable(ctx, alert.Latitude, alert.Longitude)
}

func (rs *ResponderService) findResponse(ctx context.Context, id primitive.ObjectID) (*models.EmergencyResponse, error) {
	response, err := rs.alertRepo.GetResponseByID(ctx, id)
	if err != nil {
		return nil, utils.NewNotFoundError("response")
	}
	return response, nil
}
