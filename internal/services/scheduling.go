package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"hospital-app-server/internal/models"
)

// SchedulingService owns the availability ledger and the appointment
// lifecycle: declaring slots, booking them, cancelling and completing
// appointments.
type SchedulingService struct {
	DB *gorm.DB
}

// NewSchedulingService creates a new SchedulingService.
func NewSchedulingService(db *gorm.DB) *SchedulingService {
	return &SchedulingService{DB: db}
}

// DeclareSlot creates a bookable window for a doctor.
func (s *SchedulingService) DeclareSlot(ctx context.Context, doctorID string, date time.Time, startTime, endTime string) (*models.AvailabilitySlot, error) {
	start, err := time.Parse(models.TimeLayout, startTime)
	if err != nil {
		return nil, NewValidationError("startTime", "must be in HH:MM format")
	}
	end, err := time.Parse(models.TimeLayout, endTime)
	if err != nil {
		return nil, NewValidationError("endTime", "must be in HH:MM format")
	}
	if !end.After(start) {
		return nil, NewValidationError("endTime", "must be after start time")
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, NewValidationError("date", "must not be in the past")
	}

	var doctor models.DoctorProfile
	if err := s.DB.WithContext(ctx).First(&doctor, "id = ?", doctorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	slot := models.AvailabilitySlot{
		DoctorID:  doctorID,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
	}
	if err := s.DB.WithContext(ctx).Create(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

// ListUpcomingSlots returns a doctor's slots with date >= from, ordered by
// (date, start_time) ascending. Slots stay listed after being booked; the
// appointment uniqueness index decides who actually gets the time.
func (s *SchedulingService) ListUpcomingSlots(ctx context.Context, doctorID string, from time.Time) ([]models.AvailabilitySlot, error) {
	var slots []models.AvailabilitySlot
	err := s.DB.WithContext(ctx).
		Where("doctor_id = ? AND date >= ?", doctorID, from).
		Order("date asc, start_time asc").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// Book converts a slot choice into a BOOKED appointment for the patient.
// Preconditions, in order: the slot exists, the patient is not
// blacklisted, the reason is at least 5 characters after trimming. The
// conflict pre-check keeps the common case friendly; the partial unique
// index is the authoritative guard, so a duplicate-key error at commit is
// translated to ErrSlotConflict as well.
func (s *SchedulingService) Book(ctx context.Context, patientID, slotID, reason string) (*models.Appointment, error) {
	db := s.DB.WithContext(ctx)

	var slot models.AvailabilitySlot
	if err := db.First(&slot, "id = ?", slotID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var patient models.PatientProfile
	if err := db.First(&patient, "id = ?", patientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if patient.IsBlacklisted {
		return nil, ErrForbidden
	}

	reason = strings.TrimSpace(reason)
	if len(reason) < 5 {
		return nil, NewValidationError("reason", "please provide a detailed reason (minimum 5 characters)")
	}

	start, err := slot.StartAt()
	if err != nil {
		return nil, err
	}
	end, err := slot.EndAt()
	if err != nil {
		return nil, err
	}

	var existing models.Appointment
	err = db.Where("doctor_id = ? AND appointment_start = ? AND status <> ?",
		slot.DoctorID, start, models.StatusCancelled).First(&existing).Error
	if err == nil {
		return nil, ErrSlotConflict
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	appointment := models.Appointment{
		PatientID:        patientID,
		DoctorID:         slot.DoctorID,
		AppointmentStart: start,
		AppointmentEnd:   end,
		Reason:           reason,
		Status:           models.StatusBooked,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&appointment).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the race: another request committed between the
			// pre-check and our insert.
			return nil, ErrSlotConflict
		}
		return nil, err
	}
	return &appointment, nil
}

// Cancel lets the owning patient cancel a BOOKED appointment.
func (s *SchedulingService) Cancel(ctx context.Context, appointmentID, actorPatientID string) (*models.Appointment, error) {
	db := s.DB.WithContext(ctx)

	var appointment models.Appointment
	if err := db.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if appointment.PatientID != actorPatientID {
		return nil, ErrForbidden
	}
	return s.transition(db, &appointment, models.StatusCancelled, models.CanceledByPatient)
}

// CancelByStaff cancels an appointment on behalf of a doctor or admin.
// A doctor may only cancel their own appointments; admins may cancel any.
func (s *SchedulingService) CancelByStaff(ctx context.Context, appointmentID string, actor models.CanceledBy, actorDoctorID string) (*models.Appointment, error) {
	db := s.DB.WithContext(ctx)

	var appointment models.Appointment
	if err := db.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if actor == models.CanceledByDoctor && appointment.DoctorID != actorDoctorID {
		return nil, ErrForbidden
	}
	return s.transition(db, &appointment, models.StatusCancelled, actor)
}

// TreatmentInput carries the optional clinical outcome recorded when an
// appointment is completed.
type TreatmentInput struct {
	Diagnosis    string
	Prescription string
	Notes        string
}

// Complete moves a BOOKED appointment to COMPLETED. The acting doctor
// must own the appointment (admins pass an empty actorDoctorID). When a
// treatment is supplied it is stored in the same transaction.
func (s *SchedulingService) Complete(ctx context.Context, appointmentID, actorDoctorID string, treatment *TreatmentInput) (*models.Appointment, error) {
	db := s.DB.WithContext(ctx)

	var appointment models.Appointment
	if err := db.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if actorDoctorID != "" && appointment.DoctorID != actorDoctorID {
		return nil, ErrForbidden
	}
	if !appointment.CanTransitionTo(models.StatusCompleted) {
		return nil, ErrInvalidTransition
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		appointment.Status = models.StatusCompleted
		if err := tx.Save(&appointment).Error; err != nil {
			return err
		}
		if treatment != nil {
			record := models.Treatment{
				AppointmentID: appointment.ID,
				Diagnosis:     treatment.Diagnosis,
				Prescription:  treatment.Prescription,
				Notes:         treatment.Notes,
			}
			return tx.Create(&record).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (s *SchedulingService) transition(db *gorm.DB, appointment *models.Appointment, target models.AppointmentStatus, actor models.CanceledBy) (*models.Appointment, error) {
	if !appointment.CanTransitionTo(target) {
		return nil, ErrInvalidTransition
	}
	if appointment.Status == target {
		return appointment, nil
	}
	appointment.Status = target
	if target == models.StatusCancelled {
		appointment.CanceledBy = &actor
	}
	if err := db.Save(appointment).Error; err != nil {
		return nil, err
	}
	return appointment, nil
}

// PatientAppointments returns all of a patient's appointments, newest
// start first.
func (s *SchedulingService) PatientAppointments(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.DB.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("appointment_start desc").
		Find(&appointments).Error
	return appointments, err
}

// PatientHistory returns a patient's completed appointments, newest first.
func (s *SchedulingService) PatientHistory(ctx context.Context, patientID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.DB.WithContext(ctx).
		Where("patient_id = ? AND status = ?", patientID, models.StatusCompleted).
		Order("appointment_start desc").
		Find(&appointments).Error
	return appointments, err
}

// DoctorAppointments returns all of a doctor's appointments, newest start
// first.
func (s *SchedulingService) DoctorAppointments(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.DB.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("appointment_start desc").
		Find(&appointments).Error
	return appointments, err
}

// AllAppointments returns every appointment, newest start first.
func (s *SchedulingService) AllAppointments(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := s.DB.WithContext(ctx).
		Order("appointment_start desc").
		Find(&appointments).Error
	return appointments, err
}

// GetAppointment fetches a single appointment with its treatment, if any.
func (s *SchedulingService) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := s.DB.WithContext(ctx).Preload("Treatment").First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &appointment, nil
}
