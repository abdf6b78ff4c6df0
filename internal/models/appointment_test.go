package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionTo(t *testing.T) {
	statuses := []AppointmentStatus{StatusBooked, StatusCompleted, StatusCancelled}

	// Reflexive: the identity transition always succeeds
	for _, s := range statuses {
		a := Appointment{Status: s}
		assert.True(t, a.CanTransitionTo(s), "identity transition from %s", s)
	}

	// Terminal states have no outgoing edges
	for _, terminal := range []AppointmentStatus{StatusCompleted, StatusCancelled} {
		for _, target := range statuses {
			if target == terminal {
				continue
			}
			a := Appointment{Status: terminal}
			assert.False(t, a.CanTransitionTo(target), "%s -> %s must fail", terminal, target)
		}
	}

	booked := Appointment{Status: StatusBooked}
	assert.True(t, booked.CanTransitionTo(StatusCompleted))
	assert.True(t, booked.CanTransitionTo(StatusCancelled))
}

func TestSlotStartEndAt(t *testing.T) {
	slot := AvailabilitySlot{
		Date:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "09:30",
	}

	start, err := slot.StartAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), start)

	end, err := slot.EndAt()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC), end)

	slot.StartTime = "not-a-time"
	_, err = slot.StartAt()
	assert.Error(t, err)
}

func TestUserPassword(t *testing.T) {
	var u User
	require.NoError(t, u.SetPassword("so-secret-123"))
	assert.NotEqual(t, "so-secret-123", u.Password)
	assert.True(t, u.CheckPassword("so-secret-123"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestSanitizeCarriesRoleProfile(t *testing.T) {
	doctor := User{Role: RoleDoctor, DoctorProfile: &DoctorProfile{Qualification: "MD"}}
	s := doctor.Sanitize()
	require.NotNil(t, s.Doctor)
	assert.Nil(t, s.Patient)

	patient := User{Role: RolePatient, PatientProfile: &PatientProfile{Phone: "+1 555 0100"}}
	s = patient.Sanitize()
	require.NotNil(t, s.Patient)
	assert.Nil(t, s.Doctor)

	admin := User{Role: RoleAdmin}
	s = admin.Sanitize()
	assert.Nil(t, s.Doctor)
	assert.Nil(t, s.Patient)
}
