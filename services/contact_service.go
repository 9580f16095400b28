package services

import (
	"context"
	"fmt"

	"aegis/models"
	"aegis/repositories"
	"aegis/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ContactService struct {
	contactRepo         *repositories.ContactRepository
	userRepo            *repositories.UserRepository
	notificationService *NotificationService
}

func NewContactService(contactRepo *repositories.ContactRepository, userRepo *repositories.UserRepository, notificationService *NotificationService) *ContactService {
	return &ContactService{
		contactRepo:         contactRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

func (cs *ContactService) Create(ctx context.Context, userID string, req models.CreateContactRequest) (*models.ContactView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	relationship := req.Relationship
	if relationship == "" {
		relationship = models.RelationshipOther
	}

	isEmergency := true
	if req.IsEmergencyContact != nil {
		isEmergency = *req.IsEmergencyContact
	}

	contact := models.EmergencyContact{
		UserID:             uid,
		Name:               req.Name,
		Phone:              utils.NormalizePhoneNumber(req.Phone),
		Email:              req.Email,
		Relationship:       relationship,
		IsEmergencyContact: isEmergency,
	}

	if err := cs.contactRepo.Create(ctx, &contact); err != nil {
		return nil, utils.NewConflictError(err.Error())
	}

	if req.IsPrimary {
		if err := cs.contactRepo.SetPrimary(ctx, uid, contact.ID); err != nil {
			return nil, err
		}
		contact.IsPrimary = true
	}

	return toContactView(&contact), nil
}

func (cs *ContactService) List(ctx context.Context, userID string) ([]models.ContactView, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	contacts, err := cs.contactRepo.GetByUser(ctx, uid)
	if err != nil {
		return nil, err
	}

	views := make([]models.ContactView, 0, len(contacts))
	for i := range contacts {
		views = append(views, *toContactView(&contacts[i]))
	}

	return views, nil
}

func (cs *ContactService) Get(ctx context.Context, userID, contactID string) (*models.ContactView, error) {
	contact, err := cs.ownedContact(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}

	return toContactView(contact), nil
}

func (cs *ContactService) Update(ctx context.Context, userID, contactID string, req models.UpdateContactRequest) (*models.ContactView, error) {
	contact, err := cs.ownedContact(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}

	update := bson.M{}
	if req.Name != "" {
		update["name"] = req.Name
	}
	if req.Phone != "" {
		update["phone"] = utils.NormalizePhoneNumber(req.Phone)
	}
	if req.Email != "" {
		update["email"] = req.Email
	}
	if req.Relationship != "" {
		update["relationship"] = req.Relationship
	}
	if req.IsEmergencyContact != nil {
		update["isEmergencyContact"] = *req.IsEmergencyContact
	}

	if len(update) > 0 {
		if err := cs.contactRepo.Update(ctx, contactID, update); err != nil {
			return nil, utils.NewNotFoundError("contact")
		}
	}

	if req.IsPrimary != nil && *req.IsPrimary {
		if err := cs.contactRepo.SetPrimary(ctx, contact.UserID, contact.ID); err != nil {
			return nil, err
		}
	} else if req.IsPrimary != nil && !*req.IsPrimary && contact.IsPrimary {
		if err := cs.contactRepo.Update(ctx, contactID, bson.M{"isPrimary": false}); err != nil {
			return nil, err
		}
	}

	updated, err := cs.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, utils.NewNotFoundError("contact")
	}

	return toContactView(updated), nil
}

func (cs *ContactService) SetPrimary(ctx context.Context, userID, contactID string) (*models.ContactView, error) {
	contact, err := cs.ownedContact(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}

	if err := cs.contactRepo.SetPrimary(ctx, contact.UserID, contact.ID); err != nil {
		return nil, err
	}

	contact.IsPrimary = true
	return toContactView(contact), nil
}

func (cs *ContactService) Delete(ctx context.Context, userID, contactID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return utils.NewValidationError("invalid user ID")
	}

	if err := cs.contactRepo.Delete(ctx, contactID, uid); err != nil {
		return utils.NewNotFoundError("contact")
	}

	return nil
}

// LookupByPhone searches registered users by phone so a contact can be
// linked to an existing account.
func (cs *ContactService) LookupByPhone(ctx context.Context, userID string, req models.PhoneLookupRequest) (*models.PhoneLookupResponse, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	phone := utils.NormalizePhoneNumber(req.Phone)

	match, err := cs.userRepo.GetByPhone(ctx, phone)
	if err != nil || match == nil {
		return &models.PhoneLookupResponse{
			Found:   false,
			Message: "no registered user with this phone number",
		}, nil
	}

	if match.ID == uid {
		return &models.PhoneLookupResponse{
			Found:      true,
			ExactMatch: true,
			Message:    "this is your own phone number",
		}, nil
	}

	resp := &models.PhoneLookupResponse{
		Found: true,
		User: &models.UserLookup{
			Name:  match.FullName,
			Email: match.Email,
			Phone: match.Phone,
		},
	}

	if existing, _ := cs.contactRepo.GetByUserAndPhone(ctx, uid, phone); existing != nil {
		resp.AlreadyAdded = true
		resp.Message = "this contact is already in your list"
	}

	return resp, nil
}

// GetEmergencyInfo assembles the contact sheet shown to responders and
// controllers during an active alert.
func (cs *ContactService) GetEmergencyInfo(ctx context.Context, userID string) (*models.UserEmergencyInfo, error) {
	user, err := cs.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewNotFoundError("user")
	}

	contacts, err := cs.contactRepo.GetEmergencyContacts(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ContactView, 0, len(contacts))
	for i := range contacts {
		views = append(views, *toContactView(&contacts[i]))
	}

	return &models.UserEmergencyInfo{
		ID:            user.ID.Hex(),
		Name:          user.FullName,
		Email:         user.Email,
		Contacts:      views,
		ContactsCount: len(views),
	}, nil
}

// SendTestAlert sends a practice SMS to one contact so users can verify
// their phone numbers before an emergency happens.
func (cs *ContactService) SendTestAlert(ctx context.Context, userID, contactID string) (*models.ContactView, error) {
	contact, err := cs.ownedContact(ctx, userID, contactID)
	if err != nil {
		return nil, err
	}

	owner, err := cs.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewNotFoundError("user")
	}

	body := fmt.Sprintf("TEST: %s added you as an emergency contact. No action needed. In a real emergency you will receive their location here.", owner.FullName)
	cs.notificationService.NotifySMS(ctx, contact.Phone, body)

	return toContactView(contact), nil
}

func (cs *ContactService) ownedContact(ctx context.Context, userID, contactID string) (*models.EmergencyContact, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	contact, err := cs.contactRepo.GetByID(ctx, contactID)
	if err != nil {
		return nil, utils.NewNotFoundError("contact")
	}

	if contact.UserID != uid {
		return nil, utils.NewForbiddenError("contact belongs to another user")
	}

	return contact, nil
}

func toContactView(contact *models.EmergencyContact) *models.ContactView {
	return &models.ContactView{
		EmergencyContact: *contact,
		Photo:            contact.Photo(),
	}
}
