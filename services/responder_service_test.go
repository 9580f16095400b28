package services

import (
	"context"
	"testing"

	"aegis/models"
	"aegis/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type responderServiceFixture struct {
	alerts      *fakeAlertStore
	users       *fakeUserStore
	notifs      *fakeNotificationStore
	broadcaster *fakeBroadcaster
	svc         *ResponderService
}

func newResponderServiceFixture() *responderServiceFixture {
	alerts := newFakeAlertStore()
	users := newFakeUserStore()
	notifs := &fakeNotificationStore{}
	broadcaster := &fakeBroadcaster{}
	notificationService := NewNotificationService(notifs, users, utils.NewDispatcher("", "", "", ""))

	return &responderServiceFixture{
		alerts:      alerts,
		users:       users,
		notifs:      notifs,
		broadcaster: broadcaster,
		svc:         NewResponderService(alerts, users, notificationService, broadcaster),
	}
}

func (fx *responderServiceFixture) seedAlertWithResponses(statuses ...string) (*models.EmergencyAlert, []*models.EmergencyResponse) {
	owner := fx.users.put(&models.User{UserType: models.UserTypeUser, IsActive: true})
	alert := fx.alerts.put(&models.EmergencyAlert{
		AlertID: "EMG-4E5F6071",
		UserID:  owner.ID,
		Status:  models.AlertStatusActive,
	})

	responses := make([]*models.EmergencyResponse, 0, len(statuses))
	for _, status := range statuses {
		responder := fx.users.put(&models.User{
			UserType:      models.UserTypeAgent,
			ResponderType: models.ResponderTypeMedical,
			IsActive:      true,
		})
		responses = append(responses, fx.alerts.putResponse(&models.EmergencyResponse{
			AlertID:     alert.ID,
			ResponderID: responder.ID,
			Status:      status,
		}))
	}
	return alert, responses
}

func TestLastCompletionResolvesAlert(t *testing.T) {
	fx := newResponderServiceFixture()
	alert, responses := fx.seedAlertWithResponses(models.ResponseStatusOnScene, models.ResponseStatusCompleted)
	last := responses[0]

	updated, err := fx.svc.UpdateStatus(context.Background(), last.ResponderID.Hex(),
		models.UpdateResponseStatusRequest{ResponseID: last.ID.Hex(), Status: models.ResponseStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.ResponseStatusCompleted, updated.Status)
	require.NotNil(t, updated.CompletedAt)

	stored, err := fx.alerts.GetByAlertID(context.Background(), alert.AlertID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, stored.Status)
	require.NotNil(t, stored.ResolvedAt)

	// Completing releases the responder back to the pool.
	status, err := fx.users.GetAvailability(context.Background(), last.ResponderID)
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityAvailable, status)

	ownerNotifs := fx.notifs.forUser(alert.UserID)
	var types []string
	for _, n := range ownerNotifs {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, models.NotificationResponderUpdate)
	assert.Contains(t, types, models.NotificationAlertResolved)

	assert.True(t, fx.broadcaster.has(alert.AlertID, "responder_update"))
	assert.True(t, fx.broadcaster.has(alert.AlertID, "alert_resolved"))
}

func TestCompletionWithOpenPeersLeavesAlertActive(t *testing.T) {
	fx := newResponderServiceFixture()
	alert, responses := fx.seedAlertWithResponses(models.ResponseStatusOnScene, models.ResponseStatusEnRoute)
	first := responses[0]

	_, err := fx.svc.UpdateStatus(context.Background(), first.ResponderID.Hex(),
		models.UpdateResponseStatusRequest{ResponseID: first.ID.Hex(), Status: models.ResponseStatusCompleted})
	require.NoError(t, err)

	stored, err := fx.alerts.GetByAlertID(context.Background(), alert.AlertID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusActive, stored.Status)
	assert.Empty(t, fx.notifs.ofType(models.NotificationAlertResolved))
	assert.False(t, fx.broadcaster.has(alert.AlertID, "alert_resolved"))
}

func TestCompletionOnCancelledAlertDoesNotResolve(t *testing.T) {
	fx := newResponderServiceFixture()
	alert, responses := fx.seedAlertWithResponses(models.ResponseStatusOnScene)
	require.NoError(t, fx.alerts.Update(context.Background(), alert.AlertID,
		bson.M{"status": models.AlertStatusCancelled}))
	only := responses[0]

	_, err := fx.svc.UpdateStatus(context.Background(), only.ResponderID.Hex(),
		models.UpdateResponseStatusRequest{ResponseID: only.ID.Hex(), Status: models.ResponseStatusCompleted})
	require.NoError(t, err)

	stored, err := fx.alerts.GetByAlertID(context.Background(), alert.AlertID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusCancelled, stored.Status)
	assert.Empty(t, fx.notifs.ofType(models.NotificationAlertResolved))
}
