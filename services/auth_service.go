package services

import (
	"context"

	"aegis/models"
	"aegis/repositories"
	"aegis/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *utils.JWTService
	defaultPIN string
}

func NewAuthService(userRepo *repositories.UserRepository, jwtService *utils.JWTService, defaultPIN string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		defaultPIN: defaultPIN,
	}
}

func (as *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	existing, _ := as.userRepo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, utils.NewConflictError("user with this email already exists")
	}

	userType := req.UserType
	if userType == "" {
		userType = models.UserTypeUser
	}

	if userType == models.UserTypeAgent {
		if req.AgentID == "" {
			return nil, utils.NewValidationError("agent_id is required for agent accounts")
		}
		if existing, _ := as.userRepo.GetByAgentID(ctx, req.AgentID); existing != nil {
			return nil, utils.NewConflictError("agent id already registered")
		}
	}

	if req.Phone != "" {
		if existing, _ := as.userRepo.GetByPhone(ctx, utils.NormalizePhoneNumber(req.Phone)); existing != nil {
			return nil, utils.NewConflictError("user with this phone number already exists")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logrus.Error("Failed to hash password: ", err)
		return nil, utils.NewServiceError("INTERNAL_ERROR", "failed to create user")
	}

	user := models.User{
		FullName:        req.Name,
		Email:           req.Email,
		Password:        string(hash),
		UserType:        userType,
		AgentID:         req.AgentID,
		ResponderType:   req.ResponderType,
		BadgeNumber:     req.BadgeNumber,
		Gender:          req.Gender,
		Phone:           utils.NormalizePhoneNumber(req.Phone),
		IDType:          req.IDType,
		IDNumber:        req.IDNumber,
		DOB:             req.DOB,
		BloodGroup:      req.BloodGroup,
		Address:         req.Address,
		DeviceToken:     req.DeviceToken,
		DeactivationPIN: as.defaultPIN,
	}

	if err := as.userRepo.Create(ctx, &user); err != nil {
		logrus.Error("Failed to create user: ", err)
		return nil, utils.NewServiceError("INTERNAL_ERROR", "failed to create user")
	}

	if user.UserType == models.UserTypeAgent {
		if err := as.userRepo.SetAvailability(ctx, user.ID, models.AvailabilityAvailable); err != nil {
			logrus.Warn("Failed to initialize responder availability: ", err)
		}
	}

	return as.buildAuthResponse(&user)
}

func (as *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := as.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.NewUnauthorizedError("invalid credentials")
	}

	if !user.IsActive {
		return nil, utils.NewForbiddenError("account is deactivated")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, utils.NewUnauthorizedError("invalid credentials")
	}

	// Agents authenticate with their agent id as a second factor.
	if user.UserType == models.UserTypeAgent {
		if req.AgentID == "" {
			return nil, utils.NewValidationError("agent_id is required for agent login")
		}
		if req.AgentID != user.AgentID {
			return nil, utils.NewUnauthorizedError("invalid credentials")
		}
	}

	if err := as.userRepo.UpdateLastActive(ctx, user.ID.Hex()); err != nil {
		logrus.Warn("Failed to update last active: ", err)
	}

	if req.DeviceToken != "" && req.DeviceToken != user.DeviceToken {
		if err := as.userRepo.Update(ctx, user.ID.Hex(), bson.M{"deviceToken": req.DeviceToken}); err != nil {
			logrus.Warn("Failed to store device token: ", err)
		}
	}

	return as.buildAuthResponse(user)
}

func (as *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	pair, err := as.jwtService.RefreshToken(refreshToken)
	if err != nil {
		return nil, utils.NewUnauthorizedError("invalid refresh token")
	}

	return pair, nil
}

func (as *AuthService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	user, err := as.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewNotFoundError("user")
	}

	return user, nil
}

func (as *AuthService) GetStatus(ctx context.Context, userID string) (*models.AuthStatusResponse, error) {
	user, err := as.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, utils.NewNotFoundError("user")
	}

	return &models.AuthStatusResponse{
		Authenticated: true,
		ID:            user.ID.Hex(),
		Name:          user.FullName,
		Email:         user.Email,
		UserType:      user.UserType,
	}, nil
}

func (as *AuthService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	update := bson.M{}

	if req.Name != "" {
		update["fullName"] = req.Name
	}
	if req.Gender != "" {
		update["gender"] = req.Gender
	}
	if req.Phone != "" {
		update["phone"] = utils.NormalizePhoneNumber(req.Phone)
	}
	if req.IDType != "" {
		update["idType"] = req.IDType
	}
	if req.IDNumber != "" {
		update["idNumber"] = req.IDNumber
	}
	if req.DOB != nil {
		update["dob"] = req.DOB
	}
	if req.BloodGroup != "" {
		update["bloodGroup"] = req.BloodGroup
	}
	if req.Address != "" {
		update["address"] = req.Address
	}
	if req.EmergencyMedicalNote != "" {
		update["emergencyMedicalNote"] = req.EmergencyMedicalNote
	}
	if req.Location != "" {
		update["location"] = req.Location
	}
	if req.Latitude != nil && req.Longitude != nil {
		update["latitude"] = *req.Latitude
		update["longitude"] = *req.Longitude
	}

	if len(update) == 0 {
		return nil, utils.NewValidationError("no fields to update")
	}

	if err := as.userRepo.Update(ctx, userID, update); err != nil {
		return nil, utils.NewNotFoundError("user")
	}

	return as.userRepo.GetByID(ctx, userID)
}

func (as *AuthService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	if req.NewPassword != req.ConfirmPassword {
		return utils.NewValidationError("new password and confirmation do not match")
	}
	if req.NewPassword == req.OldPassword {
		return utils.NewValidationError("new password must differ from the old password")
	}

	user, err := as.userRepo.GetByID(ctx, userID)
	if err != nil {
		return utils.NewNotFoundError("user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		return utils.NewUnauthorizedError("old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		logrus.Error("Failed to hash password: ", err)
		return utils.NewServiceError("INTERNAL_ERROR", "failed to change password")
	}

	return as.userRepo.Update(ctx, userID, bson.M{"password": string(hash)})
}

func (as *AuthService) SetDeactivationPIN(ctx context.Context, userID, pin string) error {
	return as.userRepo.Update(ctx, userID, bson.M{"deactivationPin": pin})
}

func (as *AuthService) buildAuthResponse(user *models.User) (*models.AuthResponse, error) {
	pair, err := as.jwtService.GenerateTokenPair(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		logrus.Error("Failed to generate tokens: ", err)
		return nil, utils.NewServiceError("INTERNAL_ERROR", "failed to generate tokens")
	}

	return &models.AuthResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresAt:    pair.ExpiresAt,
	}, nil
}
