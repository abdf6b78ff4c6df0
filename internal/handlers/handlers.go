package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-app-server/internal/middleware"
	"hospital-app-server/internal/models"
	"hospital-app-server/internal/services"
	"hospital-app-server/internal/utils"
)

// RespondServiceError maps the typed errors of the service layer onto
// HTTP responses. Anything unrecognized is treated as an internal error.
func RespondServiceError(c *gin.Context, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		utils.BadRequest(c, ve.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.NotFound(c, "Resource not found")
	case errors.Is(err, services.ErrForbidden):
		utils.Forbidden(c, "You are not allowed to perform this action")
	case errors.Is(err, services.ErrSlotConflict):
		utils.Conflict(c, "This slot is already booked. Please choose another.")
	case errors.Is(err, services.ErrInvalidTransition):
		utils.Conflict(c, "The appointment status does not allow this change")
	default:
		utils.InternalServerError(c, "Unexpected error: "+err.Error())
	}
}

// patientProfileFor resolves the authenticated user's patient profile.
func patientProfileFor(c *gin.Context, db *gorm.DB) (*models.PatientProfile, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	var profile models.PatientProfile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Forbidden(c, "No patient profile for this account")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &profile, true
}

// doctorProfileFor resolves the authenticated user's doctor profile.
func doctorProfileFor(c *gin.Context, db *gorm.DB) (*models.DoctorProfile, bool) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}
	var profile models.DoctorProfile
	if err := db.First(&profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Forbidden(c, "No doctor profile for this account")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}
	return &profile, true
}
