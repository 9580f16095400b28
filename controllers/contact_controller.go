package controllers

import (
	"aegis/models"
	"aegis/services"
	"aegis/utils"

	"github.com/gin-gonic/gin"
)

type ContactController struct {
	contactService *services.ContactService
	validator      *utils.ValidationService
}

func NewContactController(contactService *services.ContactService) *ContactController {
	return &ContactController{
		contactService: contactService,
		validator:      utils.NewValidationService(),
	}
}

func (cc *ContactController) Create(c *gin.Context) {
	var req models.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := cc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contact, err := cc.contactService.Create(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Contact added", contact)
}

func (cc *ContactController) List(c *gin.Context) {
	contacts, err := cc.contactService.List(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Contacts", contacts)
}

func (cc *ContactController) Get(c *gin.Context) {
	contact, err := cc.contactService.Get(c.Request.Context(), utils.GetUserID(c), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Contact", contact)
}

func (cc *ContactController) Update(c *gin.Context) {
	var req models.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := cc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	contact, err := cc.contactService.Update(c.Request.Context(), utils.GetUserID(c), c.Param("id"), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Contact updated", contact)
}

func (cc *ContactController) SetPrimary(c *gin.Context) {
	contact, err := cc.contactService.SetPrimary(c.Request.Context(), utils.GetUserID(c), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Primary contact updated", contact)
}

func (cc *ContactController) SendTestAlert(c *gin.Context) {
	contact, err := cc.contactService.SendTestAlert(c.Request.Context(), utils.GetUserID(c), c.Param("id"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Test alert sent", contact)
}

func (cc *ContactController) Delete(c *gin.Context) {
	if err := cc.contactService.Delete(c.Request.Context(), utils.GetUserID(c), c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Contact removed", nil)
}

func (cc *ContactController) LookupByPhone(c *gin.Context) {
	var req models.PhoneLookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := cc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	result, err := cc.contactService.LookupByPhone(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Phone lookup", result)
}

// GetEmergencyInfo serves the contact sheet to controllers during an
// active alert.
func (cc *ContactController) GetEmergencyInfo(c *gin.Context) {
	info, err := cc.contactService.GetEmergencyInfo(c.Request.Context(), c.Param("userId"))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Emergency info", info)
}
