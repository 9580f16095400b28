package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"aegis/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores backing the service tests. They carry just enough
// mongo semantics for the flows under test.

type fakeAlertStore struct {
	mu          sync.Mutex
	alerts      map[string]*models.EmergencyAlert
	responses   map[primitive.ObjectID]*models.EmergencyResponse
	attempts    []models.DeactivationAttempt
	cancelCalls int
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{
		alerts:    make(map[string]*models.EmergencyAlert),
		responses: make(map[primitive.ObjectID]*models.EmergencyResponse),
	}
}

func (f *fakeAlertStore) put(alert *models.EmergencyAlert) *models.EmergencyAlert {
	f.mu.Lock()
	defer f.mu.Unlock()
	if alert.ID.IsZero() {
		alert.ID = primitive.NewObjectID()
	}
	f.alerts[alert.AlertID] = alert
	return alert
}

func (f *fakeAlertStore) putResponse(response *models.EmergencyResponse) *models.EmergencyResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	if response.ID.IsZero() {
		response.ID = primitive.NewObjectID()
	}
	f.responses[response.ID] = response
	return response
}

func (f *fakeAlertStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeAlertStore) Create(ctx context.Context, alert *models.EmergencyAlert) error {
	f.put(alert)
	return nil
}

func (f *fakeAlertStore) GetByAlertID(ctx context.Context, alertID string) (*models.EmergencyAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert, ok := f.alerts[alertID]
	if !ok {
		return nil, errors.New("alert not found")
	}
	cp := *alert
	return &cp, nil
}

func (f *fakeAlertStore) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, alert := range f.alerts {
		if alert.ID == id {
			cp := *alert
			return &cp, nil
		}
	}
	return nil, errors.New("alert not found")
}

func (f *fakeAlertStore) GetActiveByUser(ctx context.Context, userID primitive.ObjectID) (*models.EmergencyAlert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, alert := range f.alerts {
		if alert.UserID == userID && alert.Status == models.AlertStatusActive {
			cp := *alert
			return &cp, nil
		}
	}
	return nil, errors.New("no active alert")
}

func (f *fakeAlertStore) GetByUser(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]models.EmergencyAlert, int64, error) {
	return nil, 0, nil
}

func (f *fakeAlertStore) GetActive(ctx context.Context) ([]models.EmergencyAlert, error) {
	return nil, nil
}

func (f *fakeAlertStore) Update(ctx context.Context, alertID string, update bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert, ok := f.alerts[alertID]
	if !ok {
		return errors.New("alert not found")
	}
	if status, ok := update["status"].(string); ok {
		alert.Status = status
	}
	if at, ok := update["cancelledAt"].(time.Time); ok {
		alert.CancelledAt = &at
	}
	if at, ok := update["resolvedAt"].(time.Time); ok {
		alert.ResolvedAt = &at
	}
	if active, ok := update["fakeScreenActive"].(bool); ok {
		alert.FakeScreenActive = active
	}
	return nil
}

func (f *fakeAlertStore) IncrementDeactivationAttempts(ctx context.Context, alertID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	alert, ok := f.alerts[alertID]
	if !ok {
		return 0, errors.New("alert not found")
	}
	alert.DeactivationAttempts++
	return alert.DeactivationAttempts, nil
}

func (f *fakeAlertStore) RecordDeactivationAttempt(ctx context.Context, attempt *models.DeactivationAttempt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attempts = append(f.attempts, *attempt)
	return nil
}

func (f *fakeAlertStore) AddLocationUpdate(ctx context.Context, update *models.LocationUpdate) error {
	return nil
}

func (f *fakeAlertStore) GetLocationUpdates(ctx context.Context, alertID primitive.ObjectID, limit int) ([]models.LocationUpdate, error) {
	return nil, nil
}

func (f *fakeAlertStore) AddMediaCapture(ctx context.Context, capture *models.MediaCapture) error {
	return nil
}

func (f *fakeAlertStore) GetMediaCaptures(ctx context.Context, alertID primitive.ObjectID) ([]models.MediaCapture, error) {
	return nil, nil
}

func (f *fakeAlertStore) CreateResponse(ctx context.Context, response *models.EmergencyResponse) error {
	f.putResponse(response)
	return nil
}

func (f *fakeAlertStore) GetResponseByID(ctx context.Context, id primitive.ObjectID) (*models.EmergencyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	response, ok := f.responses[id]
	if !ok {
		return nil, errors.New("response not found")
	}
	cp := *response
	return &cp, nil
}

func (f *fakeAlertStore) GetResponses(ctx context.Context, alertID primitive.ObjectID) ([]models.EmergencyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EmergencyResponse
	for _, response := range f.responses {
		if response.AlertID == alertID {
			out = append(out, *response)
		}
	}
	return out, nil
}

func (f *fakeAlertStore) GetResponsesByResponder(ctx context.Context, responderID primitive.ObjectID, activeOnly bool) ([]models.EmergencyResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EmergencyResponse
	for _, response := range f.responses {
		if response.ResponderID != responderID {
			continue
		}
		if activeOnly && response.IsTerminal() {
			continue
		}
		out = append(out, *response)
	}
	return out, nil
}

func (f *fakeAlertStore) UpdateResponse(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	response, ok := f.responses[id]
	if !ok {
		return errors.New("response not found")
	}
	if status, ok := update["status"].(string); ok {
		response.Status = status
	}
	if at, ok := update["completedAt"].(time.Time); ok {
		response.CompletedAt = &at
	}
	if at, ok := update["cancelledAt"].(time.Time); ok {
		response.CancelledAt = &at
	}
	if at, ok := update["acceptedAt"].(time.Time); ok {
		response.AcceptedAt = &at
	}
	if at, ok := update["enRouteAt"].(time.Time); ok {
		response.EnRouteAt = &at
	}
	if at, ok := update["onSceneAt"].(time.Time); ok {
		response.OnSceneAt = &at
	}
	return nil
}

func (f *fakeAlertStore) CancelOpenResponses(ctx context.Context, alertID primitive.ObjectID) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	now := time.Now()
	var cancelled []primitive.ObjectID
	for _, response := range f.responses {
		if response.AlertID != alertID || response.IsTerminal() {
			continue
		}
		response.Status = models.ResponseStatusCancelled
		response.CancelledAt = &now
		cancelled = append(cancelled, response.ResponderID)
	}
	return cancelled, nil
}

func (f *fakeAlertStore) CountOpenResponses(ctx context.Context, alertID primitive.ObjectID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var open int64
	for _, response := range f.responses {
		if response.AlertID == alertID && !response.IsTerminal() {
			open++
		}
	}
	return open, nil
}

func (f *fakeAlertStore) GetStatistics(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type fakeUserStore struct {
	mu           sync.Mutex
	users        map[primitive.ObjectID]*models.User
	availability map[primitive.ObjectID]string
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		users:        make(map[primitive.ObjectID]*models.User),
		availability: make(map[primitive.ObjectID]string),
	}
}

func (f *fakeUserStore) put(user *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) GetByObjectID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return nil, errors.New("user not found")
	}
	cp := *user
	return &cp, nil
}

func (f *fakeUserStore) GetByRole(ctx context.Context, role string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, user := range f.users {
		if user.UserType == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserStore) GetActiveAgents(ctx context.Context, responderType string) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.User
	for _, user := range f.users {
		if user.UserType != models.UserTypeAgent || !user.IsActive {
			continue
		}
		if responderType != "" && user.ResponderType != responderType {
			continue
		}
		out = append(out, *user)
	}
	return out, nil
}

func (f *fakeUserStore) GetAvailability(ctx context.Context, responderID primitive.ObjectID) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if status, ok := f.availability[responderID]; ok {
		return status, nil
	}
	return models.AvailabilityAvailable, nil
}

func (f *fakeUserStore) SetAvailability(ctx context.Context, responderID primitive.ObjectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.availability[responderID] = status
	return nil
}

func (f *fakeUserStore) GetAvailableResponderIDs(ctx context.Context) (map[primitive.ObjectID]bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[primitive.ObjectID]bool)
	for id, status := range f.availability {
		if status == models.AvailabilityAvailable {
			out[id] = true
		}
	}
	return out, nil
}

type fakeContactStore struct{}

func (fakeContactStore) GetEmergencyContacts(ctx context.Context, userID primitive.ObjectID) ([]models.EmergencyContact, error) {
	return nil, nil
}

type fakeNotificationStore struct {
	mu      sync.Mutex
	created []models.EmergencyNotification
}

func (f *fakeNotificationStore) Create(ctx context.Context, notification *models.EmergencyNotification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *notification)
	return nil
}

func (f *fakeNotificationStore) GetByUser(ctx context.Context, userID primitive.ObjectID, unreadOnly bool, page, pageSize int) ([]models.EmergencyNotification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id string, userID primitive.ObjectID) error {
	return nil
}

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationStore) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationStore) forUser(userID primitive.ObjectID) []models.EmergencyNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EmergencyNotification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func (f *fakeNotificationStore) ofType(notifType string) []models.EmergencyNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.EmergencyNotification
	for _, n := range f.created {
		if n.Type == notifType {
			out = append(out, n)
		}
	}
	return out
}

type broadcastEvent struct {
	AlertID string
	Event   string
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (f *fakeBroadcaster) BroadcastToAlert(alertID string, event string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, broadcastEvent{AlertID: alertID, Event: event})
}

func (f *fakeBroadcaster) has(alertID, event string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.events {
		if e.AlertID == alertID && e.Event == event {
			return true
		}
	}
	return false
}
