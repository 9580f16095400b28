package services

import (
	"context"
	"time"

	"aegis/models"
	"aegis/repositories"
	"aegis/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// DefaultAvoidRadiusMeters is applied when the request omits a radius.
	DefaultAvoidRadiusMeters = 500.0

	// avoidWindow bounds how far back past alerts count as avoid zones.
	avoidWindow = 90 * 24 * time.Hour
)

type SafeRouteService struct {
	routeRepo *repositories.SafeRouteRepository
	alertRepo *repositories.AlertRepository
	routing   *RoutingClient
}

func NewSafeRouteService(routeRepo *repositories.SafeRouteRepository, alertRepo *repositories.AlertRepository, routing *RoutingClient) *SafeRouteService {
	return &SafeRouteService{
		routeRepo: routeRepo,
		alertRepo: alertRepo,
		routing:   routing,
	}
}

// PlanRoute fetches route alternatives from the provider and picks the
// one passing fewest recent emergency sites within the avoid radius.
func (ss *SafeRouteService) PlanRoute(ctx context.Context, req models.SafeRouteRequest) (*models.SafeRouteResponse, error) {
	if !utils.IsValidCoordinate(req.OriginLatitude, req.OriginLongitude) ||
		!utils.IsValidCoordinate(req.DestinationLatitude, req.DestinationLongitude) {
		return nil, utils.NewValidationError("coordinates out of range")
	}

	radius := req.AvoidRadius
	if radius == 0 {
		radius = DefaultAvoidRadiusMeters
	}

	candidates, err := ss.routing.FetchRoutes(ctx,
		req.OriginLatitude, req.OriginLongitude,
		req.DestinationLatitude, req.DestinationLongitude)
	if err != nil {
		return nil, utils.NewExternalServiceError("routing provider unavailable", err)
	}

	avoidPoints := ss.loadAvoidPoints(ctx)

	best := candidates[0]
	bestIncidents := countNearbyIncidents(best.Points, avoidPoints, radius)
	for _, candidate := range candidates[1:] {
		incidents := countNearbyIncidents(candidate.Points, avoidPoints, radius)
		if incidents < bestIncidents {
			best = candidate
			bestIncidents = incidents
		}
	}

	return &models.SafeRouteResponse{
		Points:           best.Points,
		DistanceKM:       best.DistanceKM,
		DurationMinutes:  best.DurationMinutes,
		AvoidedIncidents: bestIncidents,
		Provider:         "osrm",
	}, nil
}

func (ss *SafeRouteService) loadAvoidPoints(ctx context.Context) []models.RoutePoint {
	alerts, err := ss.alertRepo.GetResolvedSince(ctx, time.Now().Add(-avoidWindow))
	if err != nil {
		logrus.Warn("Failed to load avoid zones: ", err)
		return nil
	}

	points := make([]models.RoutePoint, 0, len(alerts))
	for _, alert := range alerts {
		if alert.Latitude == nil || alert.Longitude == nil {
			continue
		}
		points = append(points, models.RoutePoint{
			Latitude:  *alert.Latitude,
			Longitude: *alert.Longitude,
		})
	}

	return points
}

// countNearbyIncidents counts avoid points within radiusMeters of any
// point on the route.
func countNearbyIncidents(route, avoid []models.RoutePoint, radiusMeters float64) int {
	radiusKm := radiusMeters / 1000

	count := 0
	for _, incident := range avoid {
		for _, point := range route {
			if utils.HaversineKm(point.Latitude, point.Longitude, incident.Latitude, incident.Longitude) <= radiusKm {
				count++
				break
			}
		}
	}

	return count
}

func (ss *SafeRouteService) CreateSafeLocation(ctx context.Context, userID string, req models.CreateSafeLocationRequest) (*models.SafeLocation, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	if !utils.IsValidCoordinate(req.Latitude, req.Longitude) {
		return nil, utils.NewValidationError("coordinates out of range")
	}

	location := models.SafeLocation{
		UserID:    uid,
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if err := ss.routeRepo.CreateLocation(ctx, &location); err != nil {
		return nil, err
	}

	return &location, nil
}

func (ss *SafeRouteService) ListSafeLocations(ctx context.Context, userID string) ([]models.SafeLocation, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, utils.NewValidationError("invalid user ID")
	}

	return ss.routeRepo.GetLocationsByUser(ctx, uid)
}

func (ss *SafeRouteService) DeleteSafeLocation(ctx context.Context, userID, locationID string) error {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return utils.NewValidationError("invalid user ID")
	}

	if err := ss.routeRepo.DeleteLocation(ctx, locationID, uid); err != nil {
		return utils.NewNotFoundError("safe location")
	}

	return nil
}
