package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"notified to accepted", ResponseStatusNotified, ResponseStatusAccepted, true},
		{"notified to cancelled", ResponseStatusNotified, ResponseStatusCancelled, true},
		{"accepted to en_route", ResponseStatusAccepted, ResponseStatusEnRoute, true},
		{"accepted to cancelled", ResponseStatusAccepted, ResponseStatusCancelled, true},
		{"en_route to on_scene", ResponseStatusEnRoute, ResponseStatusOnScene, true},
		{"on_scene to completed", ResponseStatusOnScene, ResponseStatusCompleted, true},
		{"on_scene to cancelled", ResponseStatusOnScene, ResponseStatusCancelled, true},

		{"notified cannot skip to en_route", ResponseStatusNotified, ResponseStatusEnRoute, false},
		{"notified cannot skip to completed", ResponseStatusNotified, ResponseStatusCompleted, false},
		{"accepted cannot go back to notified", ResponseStatusAccepted, ResponseStatusNotified, false},
		{"en_route cannot skip to completed", ResponseStatusEnRoute, ResponseStatusCompleted, false},
		{"completed is terminal", ResponseStatusCompleted, ResponseStatusCancelled, false},
		{"cancelled is terminal", ResponseStatusCancelled, ResponseStatusAccepted, false},
		{"unknown status has no moves", "paused", ResponseStatusAccepted, false},
		{"unknown target rejected", ResponseStatusNotified, "paused", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &EmergencyResponse{Status: tt.from}
			assert.Equal(t, tt.allowed, r.CanTransition(tt.to))
		})
	}
}

func TestResponseIsTerminal(t *testing.T) {
	assert.True(t, (&EmergencyResponse{Status: ResponseStatusCompleted}).IsTerminal())
	assert.True(t, (&EmergencyResponse{Status: ResponseStatusCancelled}).IsTerminal())
	assert.False(t, (&EmergencyResponse{Status: ResponseStatusNotified}).IsTerminal())
	assert.False(t, (&EmergencyResponse{Status: ResponseStatusOnScene}).IsTerminal())
}

func TestAlertIsTerminal(t *testing.T) {
	assert.False(t, (&EmergencyAlert{Status: AlertStatusActive}).IsTerminal())
	assert.True(t, (&EmergencyAlert{Status: AlertStatusResolved}).IsTerminal())
	assert.True(t, (&EmergencyAlert{Status: AlertStatusCancelled}).IsTerminal())
}

func TestTransitionErrorMessage(t *testing.T) {
	err := &TransitionError{From: ResponseStatusNotified, To: ResponseStatusCompleted}
	assert.Equal(t, "illegal response status transition: notified -> completed", err.Error())
}
