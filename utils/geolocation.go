package utils

import (
	"math"

	"aegis/models"
)

const (
	EarthRadiusKm = 6371.0
	DegToRad      = math.Pi / 180.0
)

// Minimum ETA returned for any assignment, in minutes.
const MinimumETAMinutes = 2

// Base responder speeds in km/h for the ETA heuristic. No routing graph, no
// live traffic.
var responderSpeedsKmh = map[string]float64{
	models.ResponderTypePolice:    40,
	models.ResponderTypeMedical:   50,
	models.ResponderTypeFire:      45,
	models.ResponderTypeSecurity:  35,
	models.ResponderTypeVolunteer: 15,
}

// HaversineKm calculates the great-circle distance between two coordinates in
// kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * DegToRad
	lat2Rad := lat2 * DegToRad

	dlat := (lat2 - lat1) * DegToRad
	dlon := (lon2 - lon1) * DegToRad

	a := math.Sin(dlat/2)*math.Sin(dlat/2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// EstimateETAMinutes converts a straight-line distance into an arrival
// estimate for the given responder type, never below MinimumETAMinutes.
func EstimateETAMinutes(distanceKm float64, responderType string) int {
	speed, ok := responderSpeedsKmh[responderType]
	if !ok {
		speed = responderSpeedsKmh[models.ResponderTypeVolunteer]
	}

	eta := int(math.Round(distanceKm / speed * 60))
	if eta < MinimumETAMinutes {
		return MinimumETAMinutes
	}
	return eta
}

// FallbackETAMinutes spaces out estimates by assignment order when the alert
// has no coordinates to measure against.
func FallbackETAMinutes(index int) int {
	return MinimumETAMinutes + index*5
}

// IsValidCoordinate checks if latitude and longitude values are valid
func IsValidCoordinate(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
