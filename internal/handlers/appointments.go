package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-app-server/internal/middleware"
	"hospital-app-server/internal/models"
	"hospital-app-server/internal/services"
	"hospital-app-server/internal/utils"
)

// AppointmentHandler handles booking, cancelling and completing
// appointments.
type AppointmentHandler struct {
	DB         *gorm.DB
	Scheduling *services.SchedulingService
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, scheduling *services.SchedulingService) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Scheduling: scheduling}
}

// BookRequest represents the request body for booking a slot.
type BookRequest struct {
	SlotID string `json:"slotId" binding:"required,uuid"`
	Reason string `json:"reason" binding:"required"`
}

// Book books an availability slot for the authenticated patient.
func (h *AppointmentHandler) Book(c *gin.Context) {
	patient, ok := patientProfileFor(c, h.DB)
	if !ok {
		return
	}

	var req BookRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appointment, err := h.Scheduling.Book(c.Request.Context(), patient.ID, req.SlotID, utils.Sanitize(req.Reason))
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	utils.Created(c, "Appointment booked successfully", appointment)
}

// List returns the authenticated user's appointments; admins see all.
func (h *AppointmentHandler) List(c *gin.Context) {
	role, _ := middleware.GetUserRoleFromContext(c)

	switch role {
	case models.RolePatient:
		patient, ok := patientProfileFor(c, h.DB)
		if !ok {
			return
		}
		appointments, err := h.Scheduling.PatientAppointments(c.Request.Context(), patient.ID)
		if err != nil {
			utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
			return
		}
		utils.Success(c, "Appointments fetched successfully", appointments)
	case models.RoleDoctor:
		doctor, ok := doctorProfileFor(c, h.DB)
		if !ok {
			return
		}
		appointments, err := h.Scheduling.DoctorAppointments(c.Request.Context(), doctor.ID)
		if err != nil {
			utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
			return
		}
		utils.Success(c, "Appointments fetched successfully", appointments)
	case models.RoleAdmin:
		appointments, err := h.Scheduling.AllAppointments(c.Request.Context())
		if err != nil {
			utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
			return
		}
		utils.Success(c, "Appointments fetched successfully", appointments)
	default:
		utils.Forbidden(c, "User role not permitted to view appointments")
	}
}

// History returns the authenticated patient's completed appointments.
func (h *AppointmentHandler) History(c *gin.Context) {
	patient, ok := patientProfileFor(c, h.DB)
	if !ok {
		return
	}

	appointments, err := h.Scheduling.PatientHistory(c.Request.Context(), patient.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch history: "+err.Error())
		return
	}
	utils.Success(c, "History fetched successfully", appointments)
}

// Get returns a single appointment to an involved party or an admin.
func (h *AppointmentHandler) Get(c *gin.Context) {
	appointment, err := h.Scheduling.GetAppointment(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)

	if role != models.RoleAdmin {
		involved := false
		switch role {
		case models.RolePatient:
			var profile models.PatientProfile
			if err := h.DB.First(&profile, "user_id = ?", userID).Error; err == nil {
				involved = profile.ID == appointment.PatientID
			}
		case models.RoleDoctor:
			var profile models.DoctorProfile
			if err := h.DB.First(&profile, "user_id = ?", userID).Error; err == nil {
				involved = profile.ID == appointment.DoctorID
			}
		}
		if !involved {
			utils.Forbidden(c, "You are not authorized to view this appointment")
			return
		}
	}

	utils.Success(c, "Appointment fetched successfully", appointment)
}

// Cancel cancels an appointment. Patients may only cancel their own;
// doctors their own; admins any.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	role, _ := middleware.GetUserRoleFromContext(c)

	var appointment *models.Appointment
	var err error
	switch role {
	case models.RolePatient:
		patient, ok := patientProfileFor(c, h.DB)
		if !ok {
			return
		}
		appointment, err = h.Scheduling.Cancel(c.Request.Context(), c.Param("id"), patient.ID)
	case models.RoleDoctor:
		doctor, ok := doctorProfileFor(c, h.DB)
		if !ok {
			return
		}
		appointment, err = h.Scheduling.CancelByStaff(c.Request.Context(), c.Param("id"), models.CanceledByDoctor, doctor.ID)
	case models.RoleAdmin:
		appointment, err = h.Scheduling.CancelByStaff(c.Request.Context(), c.Param("id"), models.CanceledByAdmin, "")
	default:
		utils.Forbidden(c, "User role not permitted to cancel appointments")
		return
	}
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled", appointment)
}

// CompleteRequest represents the request body for completing an
// appointment, optionally recording the treatment outcome.
type CompleteRequest struct {
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
	Notes        string `json:"notes"`
}

// Complete marks an appointment COMPLETED, recording a treatment when
// clinical details are supplied. Doctors complete their own appointments;
// admins may complete any.
func (h *AppointmentHandler) Complete(c *gin.Context) {
	role, _ := middleware.GetUserRoleFromContext(c)

	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var treatment *services.TreatmentInput
	if req.Diagnosis != "" || req.Prescription != "" || req.Notes != "" {
		treatment = &services.TreatmentInput{
			Diagnosis:    utils.Sanitize(req.Diagnosis),
			Prescription: utils.Sanitize(req.Prescription),
			Notes:        utils.Sanitize(req.Notes),
		}
	}

	actorDoctorID := ""
	if role == models.RoleDoctor {
		doctor, ok := doctorProfileFor(c, h.DB)
		if !ok {
			return
		}
		actorDoctorID = doctor.ID
	}

	appointment, err := h.Scheduling.Complete(c.Request.Context(), c.Param("id"), actorDoctorID, treatment)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	utils.Success(c, "Appointment completed", appointment)
}
