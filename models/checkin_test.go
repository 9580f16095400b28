package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckInIsOverdueAt(t *testing.T) {
	scheduled := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  string
		now     time.Time
		overdue bool
	}{
		{"pending before schedule", CheckInStatusPending, scheduled.Add(-time.Hour), false},
		{"pending inside grace", CheckInStatusPending, scheduled.Add(14 * time.Minute), false},
		{"pending at grace boundary", CheckInStatusPending, scheduled.Add(CheckInOverdueGrace), true},
		{"pending past grace", CheckInStatusPending, scheduled.Add(time.Hour), true},
		{"safe never overdue", CheckInStatusSafe, scheduled.Add(24 * time.Hour), false},
		{"missed never overdue", CheckInStatusMissed, scheduled.Add(24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &SafetyCheckIn{Status: tt.status, ScheduledAt: scheduled}
			assert.Equal(t, tt.overdue, c.IsOverdueAt(tt.now))
		})
	}
}
