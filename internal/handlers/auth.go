package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-app-server/internal/config"
	"hospital-app-server/internal/middleware"
	"hospital-app-server/internal/models"
	"hospital-app-server/internal/services"
	"hospital-app-server/internal/utils"
)

// AuthHandler handles authentication-related requests.
type AuthHandler struct {
	DB        *gorm.DB
	Cfg       *config.Config
	Directory *services.DirectoryService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, directory *services.DirectoryService) *AuthHandler {
	return &AuthHandler{DB: db, Cfg: cfg, Directory: directory}
}

// RegisterRequest represents the request body for patient registration.
// Doctors and admins are created by an administrator, not through this
// endpoint.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Gender   string `json:"gender" binding:"omitempty,oneof=male female other"`
	DOB      string `json:"dateOfBirth"` // YYYY-MM-DD, optional
}

// Register handles patient self-registration.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.Phone != "" && !utils.ValidPhone(req.Phone) {
		utils.BadRequest(c, "Invalid phone number")
		return
	}

	var dob *time.Time
	if req.DOB != "" {
		parsed, err := utils.ParseDate(req.DOB, false)
		if err != nil {
			utils.BadRequest(c, "Invalid date of birth: "+err.Error())
			return
		}
		dob = &parsed
	}

	user, err := h.Directory.RegisterPatient(c.Request.Context(), services.RegisterPatientInput{
		Name:     utils.Sanitize(req.Name),
		Email:    req.Email,
		Password: req.Password,
		Phone:    utils.Sanitize(req.Phone),
		Address:  utils.Sanitize(req.Address),
		Gender:   req.Gender,
		DOB:      dob,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	utils.Created(c, "Registration successful", user.Sanitize())
}

// LoginRequest represents the request body for user login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse represents the response body for successful login.
type LoginResponse struct {
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
	User         models.UserSanitized `json:"user"`
}

// Login handles user login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Unauthorized(c, "Invalid email or password")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if !user.CheckPassword(req.Password) {
		utils.Unauthorized(c, "Invalid email or password")
		return
	}
	if !user.IsActive {
		utils.Forbidden(c, "This account has been deactivated")
		return
	}

	accessToken, refreshTokenString, err := utils.GenerateTokens(&user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}

	refreshToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
		IsRevoked: false,
	}
	if err := h.DB.Create(&refreshToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	utils.Success(c, "Login successful", LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user.Sanitize(),
	})
}

// RefreshRequest represents the request body for refreshing tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	claims, err := utils.ValidateToken(req.RefreshToken, h.Cfg.JWTRefreshSecret)
	if err != nil {
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	var stored models.RefreshToken
	err = h.DB.Where("token = ? AND is_revoked = ?", req.RefreshToken, false).First(&stored).Error
	if err != nil || stored.ExpiresAt.Before(time.Now()) {
		utils.Unauthorized(c, "Refresh token expired or revoked")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		utils.Unauthorized(c, "User no longer exists")
		return
	}

	accessToken, refreshTokenString, err := utils.GenerateTokens(&user, h.Cfg)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate tokens: "+err.Error())
		return
	}

	// Rotate: revoke the old token and store the new one.
	stored.IsRevoked = true
	if err := h.DB.Save(&stored).Error; err != nil {
		utils.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}
	newToken := models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshTokenString,
		ExpiresAt: time.Now().Add(time.Duration(h.Cfg.JWTRefreshExpirationHours) * time.Hour),
	}
	if err := h.DB.Create(&newToken).Error; err != nil {
		utils.InternalServerError(c, "Failed to store refresh token: "+err.Error())
		return
	}

	utils.Success(c, "Token refreshed", LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		User:         user.Sanitize(),
	})
}

// Logout revokes all refresh tokens for the authenticated user.
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	err := h.DB.Model(&models.RefreshToken{}).
		Where("user_id = ?", userID).
		Update("is_revoked", true).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to revoke tokens: "+err.Error())
		return
	}

	utils.Success(c, "Logged out", nil)
}

// GetProfile returns the authenticated user with its role profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	user, err := h.Directory.GetUser(c.Request.Context(), userID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	utils.Success(c, "Profile fetched successfully", user.Sanitize())
}

// UpdateProfileRequest represents the patient-editable profile fields.
type UpdateProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Gender  string `json:"gender" binding:"omitempty,oneof=male female other"`
	DOB     string `json:"dateOfBirth"` // YYYY-MM-DD
}

// UpdateProfile lets a patient update their own profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	if req.Phone != "" && !utils.ValidPhone(req.Phone) {
		utils.BadRequest(c, "Invalid phone number")
		return
	}

	var dob *time.Time
	if req.DOB != "" {
		parsed, err := utils.ParseDate(req.DOB, false)
		if err != nil {
			utils.BadRequest(c, "Invalid date of birth: "+err.Error())
			return
		}
		dob = &parsed
	}

	user, err := h.Directory.UpdatePatientProfile(c.Request.Context(), userID, services.UpdatePatientProfileInput{
		Name:    utils.Sanitize(req.Name),
		Phone:   utils.Sanitize(req.Phone),
		Address: utils.Sanitize(req.Address),
		Gender:  req.Gender,
		DOB:     dob,
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	utils.Success(c, "Profile updated successfully", user.Sanitize())
}
