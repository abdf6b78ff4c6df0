package handlers

import (
	"github.com/gin-gonic/gin"

	"hospital-app-server/internal/models"
	"hospital-app-server/internal/services"
	"hospital-app-server/internal/utils"
)

// AdminHandler handles administrator operations: doctor and department
// management, patient oversight and dashboard aggregates.
type AdminHandler struct {
	Directory  *services.DirectoryService
	Scheduling *services.SchedulingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(directory *services.DirectoryService, scheduling *services.SchedulingService) *AdminHandler {
	return &AdminHandler{Directory: directory, Scheduling: scheduling}
}

// CreateDoctorRequest represents the request body for creating a doctor.
type CreateDoctorRequest struct {
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=8"`
	DepartmentID  string `json:"departmentId" binding:"required,uuid"`
	Qualification string `json:"qualification"`
}

// CreateDoctor creates a doctor account with its profile.
func (h *AdminHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Directory.CreateDoctor(c.Request.Context(), services.CreateDoctorInput{
		Name:          utils.Sanitize(req.Name),
		Email:         req.Email,
		Password:      req.Password,
		DepartmentID:  req.DepartmentID,
		Qualification: utils.Sanitize(req.Qualification),
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	utils.Created(c, "Doctor added successfully", user.Sanitize())
}

// UpdateDoctorRequest represents the request body for updating a doctor.
type UpdateDoctorRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email" binding:"omitempty,email"`
	Password      string `json:"password" binding:"omitempty,min=8"`
	DepartmentID  string `json:"departmentId" binding:"omitempty,uuid"`
	Qualification string `json:"qualification"`
}

// UpdateDoctor updates a doctor account and profile.
func (h *AdminHandler) UpdateDoctor(c *gin.Context) {
	var req UpdateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	user, err := h.Directory.UpdateDoctor(c.Request.Context(), c.Param("id"), services.UpdateDoctorInput{
		Name:          utils.Sanitize(req.Name),
		Email:         req.Email,
		Password:      req.Password,
		DepartmentID:  req.DepartmentID,
		Qualification: utils.Sanitize(req.Qualification),
	})
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	utils.Success(c, "Doctor updated successfully", user.Sanitize())
}

// DeleteUser removes a user account. Profiles, availability slots,
// appointments and treatments go with it.
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.Directory.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		RespondServiceError(c, err)
		return
	}
	utils.Success(c, "User deleted successfully", nil)
}

// ListDoctors returns doctors, filterable by name and department.
func (h *AdminHandler) ListDoctors(c *gin.Context) {
	doctors, err := h.Directory.ListDoctors(c.Request.Context(), c.Query("search"), c.Query("departmentId"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(doctors))
	for i, d := range doctors {
		sanitized[i] = d.Sanitize()
	}
	utils.Success(c, "Doctors fetched successfully", sanitized)
}

// ListPatients returns patients, filterable by name.
func (h *AdminHandler) ListPatients(c *gin.Context) {
	patients, err := h.Directory.ListPatients(c.Request.Context(), c.Query("search"))
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}

	sanitized := make([]models.UserSanitized, len(patients))
	for i, p := range patients {
		sanitized[i] = p.Sanitize()
	}
	utils.Success(c, "Patients fetched successfully", sanitized)
}

// BlacklistRequest represents the request body for the blacklist toggle.
type BlacklistRequest struct {
	Blacklisted *bool `json:"blacklisted" binding:"required"`
}

// SetBlacklisted toggles a patient's blacklist flag.
func (h *AdminHandler) SetBlacklisted(c *gin.Context) {
	var req BlacklistRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	profile, err := h.Directory.SetBlacklisted(c.Request.Context(), c.Param("id"), *req.Blacklisted)
	if err != nil {
		RespondServiceError(c, err)
		return
	}

	message := "Patient activated successfully"
	if profile.IsBlacklisted {
		message = "Patient blacklisted successfully"
	}
	utils.Success(c, message, profile)
}

// CreateDepartmentRequest represents the request body for a new department.
type CreateDepartmentRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateDepartment adds a department.
func (h *AdminHandler) CreateDepartment(c *gin.Context) {
	var req CreateDepartmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	dept, err := h.Directory.CreateDepartment(c.Request.Context(), req.Name)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	utils.Created(c, "Department created successfully", dept)
}

// ListDepartments returns all departments.
func (h *AdminHandler) ListDepartments(c *gin.Context) {
	depts, err := h.Directory.ListDepartments(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch departments: "+err.Error())
		return
	}
	utils.Success(c, "Departments fetched successfully", depts)
}

// Stats returns the admin dashboard aggregates.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.Directory.AdminStats(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to compute stats: "+err.Error())
		return
	}
	utils.Success(c, "Stats fetched successfully", stats)
}

// AllAppointments returns every appointment in the system.
func (h *AdminHandler) AllAppointments(c *gin.Context) {
	appointments, err := h.Scheduling.AllAppointments(c.Request.Context())
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}
	utils.Success(c, "Appointments fetched successfully", appointments)
}
