package utils

import (
	"testing"

	"aegis/models"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	t.Run("zero distance to itself", func(t *testing.T) {
		assert.Zero(t, HaversineKm(23.8103, 90.4125, 23.8103, 90.4125))
	})

	t.Run("symmetric", func(t *testing.T) {
		d1 := HaversineKm(23.8103, 90.4125, 23.7806, 90.2792)
		d2 := HaversineKm(23.7806, 90.2792, 23.8103, 90.4125)
		assert.Equal(t, d1, d2)
	})

	t.Run("one degree of longitude at the equator", func(t *testing.T) {
		assert.InDelta(t, 111.19, HaversineKm(0, 0, 0, 1), 0.05)
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		assert.InDelta(t, 111.19, HaversineKm(23, 90, 24, 90), 0.05)
	})
}

func TestEstimateETAMinutes(t *testing.T) {
	t.Run("floors at the minimum", func(t *testing.T) {
		assert.Equal(t, MinimumETAMinutes, EstimateETAMinutes(0, models.ResponderTypePolice))
		assert.Equal(t, MinimumETAMinutes, EstimateETAMinutes(0.1, models.ResponderTypeMedical))
	})

	t.Run("per responder type speeds", func(t *testing.T) {
		// 10 km at 40/50/45/35/15 km/h
		assert.Equal(t, 15, EstimateETAMinutes(10, models.ResponderTypePolice))
		assert.Equal(t, 12, EstimateETAMinutes(10, models.ResponderTypeMedical))
		assert.Equal(t, 13, EstimateETAMinutes(10, models.ResponderTypeFire))
		assert.Equal(t, 17, EstimateETAMinutes(10, models.ResponderTypeSecurity))
		assert.Equal(t, 40, EstimateETAMinutes(10, models.ResponderTypeVolunteer))
	})

	t.Run("unknown type uses the slowest speed", func(t *testing.T) {
		assert.Equal(t, EstimateETAMinutes(10, models.ResponderTypeVolunteer), EstimateETAMinutes(10, "drone"))
	})

	t.Run("non-decreasing in distance", func(t *testing.T) {
		prev := 0
		for d := 0.0; d <= 50; d += 2.5 {
			eta := EstimateETAMinutes(d, models.ResponderTypePolice)
			assert.GreaterOrEqual(t, eta, prev)
			prev = eta
		}
	})
}

func TestFallbackETAMinutes(t *testing.T) {
	assert.Equal(t, MinimumETAMinutes, FallbackETAMinutes(0))
	assert.Equal(t, MinimumETAMinutes+5, FallbackETAMinutes(1))
	assert.Equal(t, MinimumETAMinutes+10, FallbackETAMinutes(2))
}

func TestIsValidCoordinate(t *testing.T) {
	assert.True(t, IsValidCoordinate(23.8103, 90.4125))
	assert.True(t, IsValidCoordinate(-90, -180))
	assert.True(t, IsValidCoordinate(90, 180))
	assert.False(t, IsValidCoordinate(90.1, 0))
	assert.False(t, IsValidCoordinate(0, 180.1))
	assert.False(t, IsValidCoordinate(-91, 0))
}
