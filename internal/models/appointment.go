package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "BOOKED"
	StatusCompleted AppointmentStatus = "COMPLETED"
	StatusCancelled AppointmentStatus = "CANCELLED"
)

// CanceledBy identifies which actor cancelled an appointment.
type CanceledBy string

const (
	CanceledByPatient CanceledBy = "PATIENT"
	CanceledByDoctor  CanceledBy = "DOCTOR"
	CanceledByAdmin   CanceledBy = "ADMIN"
)

// Appointment is a committed booking of a doctor at a specific start
// instant by a patient. The uq_doctor_appointment_slot partial unique
// index (see Migrate) guarantees at most one non-cancelled appointment
// per (doctor_id, appointment_start).
type Appointment struct {
	BaseModel
	PatientID        string            `gorm:"size:36;index;not null" json:"patientId"`
	DoctorID         string            `gorm:"size:36;not null" json:"doctorId"`
	AppointmentStart time.Time         `gorm:"not null" json:"appointmentStart"`
	AppointmentEnd   time.Time         `gorm:"not null" json:"appointmentEnd"`
	Status           AppointmentStatus `gorm:"size:20;not null;default:'BOOKED'" json:"status"`
	Reason           string            `gorm:"size:255" json:"reason"`
	CanceledBy       *CanceledBy       `gorm:"size:20" json:"canceledBy,omitempty"`
	IsActive         bool              `gorm:"default:true" json:"isActive"`

	// Relations
	Patient   PatientProfile `gorm:"foreignKey:PatientID" json:"-"`
	Doctor    DoctorProfile  `gorm:"foreignKey:DoctorID" json:"-"`
	Treatment *Treatment     `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"treatment,omitempty"`
}

// CanTransitionTo reports whether the appointment may move to the given
// status. The identity transition always succeeds; COMPLETED and
// CANCELLED are terminal; a BOOKED appointment may be completed or
// cancelled. Pure; callers persist the new status themselves.
func (a *Appointment) CanTransitionTo(target AppointmentStatus) bool {
	if a.Status == target {
		return true
	}
	if a.Status == StatusCompleted || a.Status == StatusCancelled {
		return false
	}
	switch target {
	case StatusCancelled, StatusCompleted:
		return a.Status == StatusBooked
	}
	return false
}
