package services

import (
	"context"
	"errors"
	"testing"

	"aegis/models"
	"aegis/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type alertServiceFixture struct {
	alerts      *fakeAlertStore
	users       *fakeUserStore
	notifs      *fakeNotificationStore
	broadcaster *fakeBroadcaster
	svc         *AlertService
}

func newAlertServiceFixture() *alertServiceFixture {
	alerts := newFakeAlertStore()
	users := newFakeUserStore()
	notifs := &fakeNotificationStore{}
	broadcaster := &fakeBroadcaster{}
	notificationService := NewNotificationService(notifs, users, utils.NewDispatcher("", "", "", ""))

	return &alertServiceFixture{
		alerts:      alerts,
		users:       users,
		notifs:      notifs,
		broadcaster: broadcaster,
		svc:         NewAlertService(alerts, users, fakeContactStore{}, notificationService, broadcaster, 5),
	}
}

func (fx *alertServiceFixture) seedOwnerWithActiveAlert(pin string) (*models.User, *models.EmergencyAlert) {
	owner := fx.users.put(&models.User{
		FullName:        "Asha Rahman",
		UserType:        models.UserTypeUser,
		IsActive:        true,
		DeactivationPIN: pin,
	})
	alert := fx.alerts.put(&models.EmergencyAlert{
		AlertID: "EMG-0A1B2C3D",
		UserID:  owner.ID,
		Status:  models.AlertStatusActive,
	})
	return owner, alert
}

func (fx *alertServiceFixture) seedResponse(alert *models.EmergencyAlert, status string) *models.EmergencyResponse {
	responder := fx.users.put(&models.User{
		UserType:      models.UserTypeAgent,
		ResponderType: models.ResponderTypePolice,
		IsActive:      true,
	})
	return fx.alerts.putResponse(&models.EmergencyResponse{
		AlertID:     alert.ID,
		ResponderID: responder.ID,
		Status:      status,
	})
}

func TestDeactivateWrongPINThreeTimesNotifiesEveryAdmin(t *testing.T) {
	fx := newAlertServiceFixture()
	owner, alert := fx.seedOwnerWithActiveAlert("2580")
	fx.seedResponse(alert, models.ResponseStatusEnRoute)

	admin1 := fx.users.put(&models.User{UserType: models.UserTypeAdmin, IsActive: true})
	admin2 := fx.users.put(&models.User{UserType: models.UserTypeAdmin, IsActive: true})

	req := models.DeactivateAlertRequest{AlertID: alert.AlertID, PIN: "0000"}
	for want := 1; want <= 3; want++ {
		_, err := fx.svc.Deactivate(context.Background(), owner.ID.Hex(), req)
		var wrongPIN *WrongPINError
		require.True(t, errors.As(err, &wrongPIN))
		assert.Equal(t, want, wrongPIN.Attempts)
	}

	// The third failure escalates to every admin account.
	coercion := fx.notifs.ofType(models.NotificationPossibleCoercion)
	require.Len(t, coercion, 2)
	assert.Len(t, fx.notifs.forUser(admin1.ID), 1)
	assert.Len(t, fx.notifs.forUser(admin2.ID), 1)

	// Failed attempts never touch the alert or its responses.
	stored, err := fx.alerts.GetByAlertID(context.Background(), alert.AlertID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusActive, stored.Status)
	assert.Equal(t, 3, stored.DeactivationAttempts)
	assert.Zero(t, fx.alerts.cancelCalls)
}

func TestDeactivateWrongPINBelowThresholdStaysQuiet(t *testing.T) {
	fx := newAlertServiceFixture()
	owner, alert := fx.seedOwnerWithActiveAlert("2580")
	fx.users.put(&models.User{UserType: models.UserTypeAdmin, IsActive: true})

	req := models.DeactivateAlertRequest{AlertID: alert.AlertID, PIN: "1111"}
	for i := 0; i < 2; i++ {
		_, err := fx.svc.Deactivate(context.Background(), owner.ID.Hex(), req)
		require.Error(t, err)
	}

	assert.Empty(t, fx.notifs.ofType(models.NotificationPossibleCoercion))
}

func TestDeactivateCorrectPINCancelsCascadeOnce(t *testing.T) {
	fx := newAlertServiceFixture()
	owner, alert := fx.seedOwnerWithActiveAlert("2580")
	open1 := fx.seedResponse(alert, models.ResponseStatusNotified)
	open2 := fx.seedResponse(alert, models.ResponseStatusEnRoute)
	done := fx.seedResponse(alert, models.ResponseStatusCompleted)

	result, err := fx.svc.Deactivate(context.Background(), owner.ID.Hex(),
		models.DeactivateAlertRequest{AlertID: alert.AlertID, PIN: "2580"})
	require.NoError(t, err)

	assert.Equal(t, models.AlertStatusCancelled, result.Status)
	assert.Equal(t, 2, result.ResponsesCancelled)
	require.NotNil(t, result.CancelledAt)

	for _, id := range []primitive.ObjectID{open1.ID, open2.ID} {
		response, err := fx.alerts.GetResponseByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, models.ResponseStatusCancelled, response.Status)
	}

	// A completed response stays completed through the cascade.
	completed, err := fx.alerts.GetResponseByID(context.Background(), done.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ResponseStatusCompleted, completed.Status)

	// Cancelled responders go back into the available pool.
	for _, id := range []primitive.ObjectID{open1.ResponderID, open2.ResponderID} {
		status, err := fx.users.GetAvailability(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, models.AvailabilityAvailable, status)
		assert.Len(t, fx.notifs.forUser(id), 1)
	}

	// The owner hears about the stand-down too.
	ownerNotifs := fx.notifs.forUser(owner.ID)
	require.Len(t, ownerNotifs, 1)
	assert.Equal(t, models.NotificationAlertCancelled, ownerNotifs[0].Type)

	assert.True(t, fx.broadcaster.has(alert.AlertID, "alert_cancelled"))
	assert.Equal(t, 1, fx.alerts.cancelCalls)

	// A second attempt finds the alert already out of the active state.
	_, err = fx.svc.Deactivate(context.Background(), owner.ID.Hex(),
		models.DeactivateAlertRequest{AlertID: alert.AlertID, PIN: "2580"})
	var svcErr utils.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "CONFLICT", svcErr.Code)
	assert.Equal(t, 1, fx.alerts.cancelCalls)
}

func TestDeactivateRejectsNonOwner(t *testing.T) {
	fx := newAlertServiceFixture()
	_, alert := fx.seedOwnerWithActiveAlert("2580")
	stranger := fx.users.put(&models.User{UserType: models.UserTypeUser, IsActive: true})

	_, err := fx.svc.Deactivate(context.Background(), stranger.ID.Hex(),
		models.DeactivateAlertRequest{AlertID: alert.AlertID, PIN: "2580"})

	var svcErr utils.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "FORBIDDEN", svcErr.Code)
}

func TestGetDetailScopedToCaller(t *testing.T) {
	fx := newAlertServiceFixture()
	owner, alert := fx.seedOwnerWithActiveAlert("2580")
	response := fx.seedResponse(alert, models.ResponseStatusAccepted)
	stranger := fx.users.put(&models.User{UserType: models.UserTypeUser, IsActive: true})
	controller := fx.users.put(&models.User{UserType: models.UserTypeController, IsActive: true})

	detail, err := fx.svc.GetDetail(context.Background(), owner.ID.Hex(), models.UserTypeUser, alert.AlertID)
	require.NoError(t, err)
	assert.Equal(t, alert.AlertID, detail.Alert.AlertID)

	_, err = fx.svc.GetDetail(context.Background(), response.ResponderID.Hex(), models.UserTypeAgent, alert.AlertID)
	assert.NoError(t, err)

	_, err = fx.svc.GetDetail(context.Background(), controller.ID.Hex(), models.UserTypeController, alert.AlertID)
	assert.NoError(t, err)

	// An unrelated caller cannot tell the alert exists at all.
	_, err = fx.svc.GetDetail(context.Background(), stranger.ID.Hex(), models.UserTypeUser, alert.AlertID)
	var svcErr utils.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, "NOT_FOUND", svcErr.Code)
}
