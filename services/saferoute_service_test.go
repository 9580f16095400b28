package services

import (
	"testing"

	"aegis/models"

	"github.com/stretchr/testify/assert"
)

func TestCountNearbyIncidents(t *testing.T) {
	// Roughly 100 m apart per 0.001 degrees of latitude
	route := []models.RoutePoint{
		{Latitude: 23.8103, Longitude: 90.4125},
		{Latitude: 23.8113, Longitude: 90.4125},
		{Latitude: 23.8123, Longitude: 90.4125},
	}

	t.Run("no incidents", func(t *testing.T) {
		assert.Zero(t, countNearbyIncidents(route, nil, 500))
	})

	t.Run("incident on the path counts once", func(t *testing.T) {
		avoid := []models.RoutePoint{{Latitude: 23.8104, Longitude: 90.4125}}
		assert.Equal(t, 1, countNearbyIncidents(route, avoid, 500))
	})

	t.Run("incident near several route points still counts once", func(t *testing.T) {
		avoid := []models.RoutePoint{{Latitude: 23.8110, Longitude: 90.4125}}
		assert.Equal(t, 1, countNearbyIncidents(route, avoid, 500))
	})

	t.Run("faraway incident ignored", func(t *testing.T) {
		avoid := []models.RoutePoint{{Latitude: 23.9000, Longitude: 90.5000}}
		assert.Zero(t, countNearbyIncidents(route, avoid, 500))
	})

	t.Run("radius bounds the match", func(t *testing.T) {
		// About 1.1 km north of the last route point
		avoid := []models.RoutePoint{{Latitude: 23.8223, Longitude: 90.4125}}
		assert.Zero(t, countNearbyIncidents(route, avoid, 500))
		assert.Equal(t, 1, countNearbyIncidents(route, avoid, 1500))
	})

	t.Run("each incident counted separately", func(t *testing.T) {
		avoid := []models.RoutePoint{
			{Latitude: 23.8103, Longitude: 90.4125},
			{Latitude: 23.8123, Longitude: 90.4125},
		}
		assert.Equal(t, 2, countNearbyIncidents(route, avoid, 500))
	})
}
