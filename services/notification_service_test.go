package services

import (
	"context"
	"sync"
	"testing"

	"aegis/models"
	"aegis/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sentPush struct {
	Token string
	Msg   utils.PushMessage
}

type fakeDispatcher struct {
	mu     sync.Mutex
	pushes []sentPush
	sms    []string
}

func (f *fakeDispatcher) SendPush(ctx context.Context, deviceToken string, msg utils.PushMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pushes = append(f.pushes, sentPush{Token: deviceToken, Msg: msg})
	return nil
}

func (f *fakeDispatcher) SendSMS(ctx context.Context, to, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sms = append(f.sms, to)
	return nil
}

func TestNotifyPushesToRegisteredDevice(t *testing.T) {
	users := newFakeUserStore()
	store := &fakeNotificationStore{}
	dispatcher := &fakeDispatcher{}
	svc := NewNotificationService(store, users, dispatcher)

	user := users.put(&models.User{
		UserType:    models.UserTypeUser,
		IsActive:    true,
		DeviceToken: "fcm-token-1",
	})

	svc.Notify(context.Background(), user.ID, nil,
		models.NotificationResponderAssigned, "Responder assigned", "Help is on the way", nil)

	require.Len(t, store.created, 1)
	assert.Equal(t, user.ID, store.created[0].UserID)

	require.Len(t, dispatcher.pushes, 1)
	assert.Equal(t, "fcm-token-1", dispatcher.pushes[0].Token)
	assert.Equal(t, "Responder assigned", dispatcher.pushes[0].Msg.Title)
	assert.Equal(t, models.NotificationResponderAssigned, dispatcher.pushes[0].Msg.Data["type"])
}

func TestNotifySkipsPushWithoutDeviceToken(t *testing.T) {
	users := newFakeUserStore()
	store := &fakeNotificationStore{}
	dispatcher := &fakeDispatcher{}
	svc := NewNotificationService(store, users, dispatcher)

	user := users.put(&models.User{UserType: models.UserTypeUser, IsActive: true})

	svc.Notify(context.Background(), user.ID, nil,
		models.NotificationAlertResolved, "Alert resolved", "All responders completed", nil)

	assert.Len(t, store.created, 1)
	assert.Empty(t, dispatcher.pushes)
}

func TestNotifyStoresEvenWhenUserLookupFails(t *testing.T) {
	users := newFakeUserStore()
	store := &fakeNotificationStore{}
	dispatcher := &fakeDispatcher{}
	svc := NewNotificationService(store, users, dispatcher)

	svc.Notify(context.Background(), primitive.NewObjectID(), nil,
		models.NotificationAlertActivated, "Emergency alert activated", "Summary", nil)

	assert.Len(t, store.created, 1)
	assert.Empty(t, dispatcher.pushes)
}
