package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"hospital-app-server/internal/services"
	"hospital-app-server/internal/utils"
)

// AvailabilityHandler handles the availability ledger: doctors declaring
// slots and patients browsing them.
type AvailabilityHandler struct {
	DB         *gorm.DB
	Scheduling *services.SchedulingService
}

// NewAvailabilityHandler creates a new AvailabilityHandler.
func NewAvailabilityHandler(db *gorm.DB, scheduling *services.SchedulingService) *AvailabilityHandler {
	return &AvailabilityHandler{DB: db, Scheduling: scheduling}
}

// DeclareSlotRequest represents the request body for declaring a slot.
type DeclareSlotRequest struct {
	Date      string `json:"date" binding:"required"`      // YYYY-MM-DD
	StartTime string `json:"startTime" binding:"required"` // HH:MM
	EndTime   string `json:"endTime" binding:"required"`   // HH:MM
}

// DeclareSlot lets the authenticated doctor declare a bookable window.
func (h *AvailabilityHandler) DeclareSlot(c *gin.Context) {
	doctor, ok := doctorProfileFor(c, h.DB)
	if !ok {
		return
	}

	var req DeclareSlotRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	slot, err := h.Scheduling.DeclareSlot(c.Request.Context(), doctor.ID, date, req.StartTime, req.EndTime)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	utils.Created(c, "Availability slot created", slot)
}

// MySlots returns the authenticated doctor's upcoming slots.
func (h *AvailabilityHandler) MySlots(c *gin.Context) {
	doctor, ok := doctorProfileFor(c, h.DB)
	if !ok {
		return
	}
	h.listSlots(c, doctor.ID)
}

// DoctorSlots returns a doctor's upcoming slots for patients browsing the
// directory.
func (h *AvailabilityHandler) DoctorSlots(c *gin.Context) {
	h.listSlots(c, c.Param("id"))
}

func (h *AvailabilityHandler) listSlots(c *gin.Context, doctorID string) {
	from := time.Now().UTC().Truncate(24 * time.Hour)
	if fromParam := c.Query("from"); fromParam != "" {
		parsed, err := time.Parse("2006-01-02", fromParam)
		if err != nil {
			utils.BadRequest(c, "Invalid from date, expected YYYY-MM-DD")
			return
		}
		from = parsed
	}

	slots, err := h.Scheduling.ListUpcomingSlots(c.Request.Context(), doctorID, from)
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch slots: "+err.Error())
		return
	}
	utils.Success(c, "Slots fetched successfully", slots)
}
