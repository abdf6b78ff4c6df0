package models

import (
	"fmt"
	"time"
)

// TimeLayout is the wire format for slot start/end times.
const TimeLayout = "15:04"

// AvailabilitySlot is a doctor-declared bookable window. A slot is a
// candidate, not a commitment: booking never mutates or deletes it, and
// double-booking is prevented by the appointment uniqueness index, not by
// marking the slot consumed.
type AvailabilitySlot struct {
	BaseModel
	DoctorID  string    `gorm:"size:36;index;not null" json:"doctorId"`
	Date      time.Time `gorm:"type:date;not null" json:"date"`
	StartTime string    `gorm:"type:time;size:5;not null" json:"startTime"`
	EndTime   string    `gorm:"type:time;size:5;not null" json:"endTime"`

	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"-"`
}

// StartAt combines the slot date and start time into a single instant.
func (s *AvailabilitySlot) StartAt() (time.Time, error) {
	return combine(s.Date, s.StartTime)
}

// EndAt combines the slot date and end time into a single instant.
func (s *AvailabilitySlot) EndAt() (time.Time, error) {
	return combine(s.Date, s.EndTime)
}

func combine(date time.Time, clock string) (time.Time, error) {
	t, err := time.Parse(TimeLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}
