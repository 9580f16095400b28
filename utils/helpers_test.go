package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var alertIDPattern = regexp.MustCompile(`^EMG-[0-9A-F]{8}$`)

func TestGenerateAlertID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := GenerateAlertID()
		assert.Regexp(t, alertIDPattern, id)
		assert.False(t, seen[id], "generated a duplicate id: %s", id)
		seen[id] = true
	}
}

func TestNormalizePhoneNumber(t *testing.T) {
	assert.Equal(t, "+8801712345678", NormalizePhoneNumber("+880 171-234-5678"))
	assert.Equal(t, "+15551234567", NormalizePhoneNumber("+1 (555) 123-4567"))
	assert.Equal(t, "01712345678", NormalizePhoneNumber("01712345678"))
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatFileSize(512))
	assert.Equal(t, "1.0 KB", FormatFileSize(1024))
	assert.Equal(t, "2.5 MB", FormatFileSize(2621440))
}
