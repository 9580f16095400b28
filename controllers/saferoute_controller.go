package controllers

import (
	"aegis/models"
	"aegis/services"
	"aegis/utils"

	"github.com/gin-gonic/gin"
)

type SafeRouteController struct {
	safeRouteService *services.SafeRouteService
	validator        *utils.ValidationService
}

func NewSafeRouteController(safeRouteService *services.SafeRouteService) *SafeRouteController {
	return &SafeRouteController{
		safeRouteService: safeRouteService,
		validator:        utils.NewValidationService(),
	}
}

// PlanRoute returns the route alternative passing fewest recent
// emergency sites.
func (sc *SafeRouteController) PlanRoute(c *gin.Context) {
	var req models.SafeRouteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := sc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	route, err := sc.safeRouteService.PlanRoute(c.Request.Context(), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Safe route", route)
}

func (sc *SafeRouteController) CreateLocation(c *gin.Context) {
	var req models.CreateSafeLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := sc.validator.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	location, err := sc.safeRouteService.CreateSafeLocation(c.Request.Context(), utils.GetUserID(c), req)
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "Safe location saved", location)
}

func (sc *SafeRouteController) ListLocations(c *gin.Context) {
	locations, err := sc.safeRouteService.ListSafeLocations(c.Request.Context(), utils.GetUserID(c))
	if err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Safe locations", locations)
}

func (sc *SafeRouteController) DeleteLocation(c *gin.Context) {
	if err := sc.safeRouteService.DeleteSafeLocation(c.Request.Context(), utils.GetUserID(c), c.Param("id")); err != nil {
		utils.ServiceErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "Safe location removed", nil)
}
