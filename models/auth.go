package models

import "time"

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	UserType string `json:"user_type" validate:"omitempty,oneof=user agent controller admin"`

	// Agent-only fields
	AgentID       string `json:"agent_id,omitempty"`
	ResponderType string `json:"responder_type,omitempty" validate:"omitempty,oneof=police medical fire security volunteer"`
	BadgeNumber   string `json:"badge_number,omitempty"`

	Gender     string     `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Phone      string     `json:"phone,omitempty" validate:"omitempty,phone"`
	IDType     string     `json:"id_type,omitempty" validate:"omitempty,oneof=nid birth"`
	IDNumber   string     `json:"id_number,omitempty"`
	DOB        *time.Time `json:"dob,omitempty"`
	BloodGroup string     `json:"blood_group,omitempty"`
	Address    string     `json:"address,omitempty"`

	DeviceToken string `json:"device_token,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// Agents must present their agent id in addition to credentials
	AgentID string `json:"agent_id,omitempty"`
	// Refreshed on every login so pushes reach the latest device
	DeviceToken string `json:"device_token,omitempty"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateProfileRequest struct {
	Name                 string     `json:"name,omitempty"`
	Gender               string     `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Phone                string     `json:"phone,omitempty" validate:"omitempty,phone"`
	IDType               string     `json:"id_type,omitempty" validate:"omitempty,oneof=nid birth"`
	IDNumber             string     `json:"id_number,omitempty"`
	DOB                  *time.Time `json:"dob,omitempty"`
	BloodGroup           string     `json:"blood_group,omitempty"`
	Address              string     `json:"address,omitempty"`
	EmergencyMedicalNote string     `json:"emergency_medical_note,omitempty"`
	Latitude             *float64   `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude            *float64   `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Location             string     `json:"location,omitempty"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type AuthResponse struct {
	User         *User     `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type AuthStatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	UserType      string `json:"user_type"`
}
