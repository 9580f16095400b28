package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type pinPayload struct {
	PIN string `validate:"required,pin"`
}

type phonePayload struct {
	Phone string `validate:"required,phone"`
}

func TestPINValidation(t *testing.T) {
	vs := NewValidationService()

	tests := []struct {
		pin   string
		valid bool
	}{
		{"2580", true},
		{"0000", true},
		{"12345678", true},
		{"123", false},
		{"123456789", false},
		{"25a0", false},
		{"", false},
	}

	for _, tt := range tests {
		errs := vs.ValidateStruct(pinPayload{PIN: tt.pin})
		if tt.valid {
			assert.Empty(t, errs, "pin %q should be valid", tt.pin)
		} else {
			assert.NotEmpty(t, errs, "pin %q should be rejected", tt.pin)
		}
	}
}

func TestPhoneValidation(t *testing.T) {
	vs := NewValidationService()

	tests := []struct {
		phone string
		valid bool
	}{
		{"+8801712345678", true},
		{"01712345678", true},
		{"+1 (555) 123-4567", true},
		{"12345", false},
		{"not-a-phone", false},
		{"", false},
	}

	for _, tt := range tests {
		errs := vs.ValidateStruct(phonePayload{Phone: tt.phone})
		if tt.valid {
			assert.Empty(t, errs, "phone %q should be valid", tt.phone)
		} else {
			assert.NotEmpty(t, errs, "phone %q should be rejected", tt.phone)
		}
	}
}

func TestValidationErrorMessages(t *testing.T) {
	vs := NewValidationService()

	errs := vs.ValidateStruct(pinPayload{PIN: "12"})
	assert.Len(t, errs, 1)
	assert.Equal(t, "PIN", errs[0].Field)
	assert.Equal(t, "PIN must be 4 to 8 digits", errs[0].Message)
}
