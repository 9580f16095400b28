package services

import (
	"context"

	"aegis/models"
	"aegis/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageDispatcher sends out-of-app messages. utils.Dispatcher is the
// production implementation.
type MessageDispatcher interface {
	SendPush(ctx context.Context, deviceToken string, msg utils.PushMessage) error
	SendSMS(ctx context.Context, to, body string) error
}

type NotificationService struct {
	notificationRepo NotificationStore
	userRepo         UserStore
	dispatcher       MessageDispatcher
}

func NewNotificationService(notificationRepo NotificationStore, userRepo UserStore, dispatcher MessageDispatcher) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		dispatcher:       dispatcher,
	}
}

// Notify stores an in-app notification for the user and pushes it to
// their registered device. Delivery failures are logged and never
// propagated; an unreachable channel must not interrupt alert handling.
func (ns *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, alertID *primitive.ObjectID, notifType, title, message string, payload map[string]interface{}) {
	notification := models.EmergencyNotification{
		UserID:  userID,
		AlertID: alertID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Payload: payload,
	}

	if err := ns.notificationRepo.Create(ctx, &notification); err != nil {
		logrus.Errorf("Failed to store notification for user %s: %v", userID.Hex(), err)
	}

	ns.pushToDevice(ctx, userID, notifType, title, message)
}

func (ns *NotificationService) pushToDevice(ctx context.Context, userID primitive.ObjectID, notifType, title, message string) {
	user, err := ns.userRepo.GetByObjectID(ctx, userID)
	if err != nil {
		logrus.Warnf("Push skipped, user %s not found: %v", userID.Hex(), err)
		return
	}
	if user.DeviceToken == "" {
		return
	}

	msg := utils.PushMessage{
		Title: title,
		Body:  message,
		Data:  map[string]string{"type": notifType},
	}
	if err := ns.dispatcher.SendPush(ctx, user.DeviceToken, msg); err != nil {
		logrus.Warnf("Push to user %s failed: %v", userID.Hex(), err)
	}
}

// NotifySMS sends a text message, degrading to a log line when no SMS
// provider is configured.
func (ns *NotificationService) NotifySMS(ctx context.Context, phone, body string) {
	if phone == "" {
		return
	}
	if err := ns.dispatcher.SendSMS(ctx, phone, body); err != nil {
		logrus.Warnf("SMS to %s failed: %v", phone, err)
	}
}

func (ns *NotificationService) List(ctx context.Context, userID string, unreadOnly bool, page, pageSize int) ([]models.EmergencyNotification, int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, 0, utils.NewValidationError("invalid user ID")
	}

	return ns.notificationRepo.GetByUser(ctx, uid, unreadOnly, page, pageSize)
}

func (ns *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return utils.NewValidationError("invalid user ID")
	}

	if err := ns.notificationRepo.MarkRead(ctx, notificationID, uid); err != nil {
		return utils.NewNotFoundError("notification")
	}

	return nil
}

func (ns *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, utils.NewValidationError("invalid user ID")
	}

	return ns.notificationRepo.MarkAllRead(ctx, uid)
}

func (ns *NotificationService) CountUnread(ctx context.Context, userID string) (int64, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, utils.NewValidationError("invalid user ID")
	}

	return ns.notificationRepo.CountUnread(ctx, uid)
}
