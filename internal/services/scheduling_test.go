package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hospital-app-server/internal/models"
)

func TestBookLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)
	ctx := context.Background()

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	patientP := seedPatient(t, db, "p@example.com")
	patientQ := seedPatient(t, db, "q@example.com")

	date := futureDate(7)
	slot := seedSlot(t, db, doctor.ID, date, "09:00", "09:30")

	// P books the slot
	appt, err := svc.Book(ctx, patientP.ID, slot.ID, "Annual checkup")
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, appt.Status)
	assert.Equal(t, doctor.ID, appt.DoctorID)

	wantStart := time.Date(date.Year(), date.Month(), date.Day(), 9, 0, 0, 0, time.UTC)
	assert.True(t, appt.AppointmentStart.Equal(wantStart))
	wantEnd := wantStart.Add(30 * time.Minute)
	assert.True(t, appt.AppointmentEnd.Equal(wantEnd))

	// Q tries the same slot and loses
	_, err = svc.Book(ctx, patientQ.ID, slot.ID, "Chest pain follow-up")
	assert.ErrorIs(t, err, ErrSlotConflict)

	// P cancels
	cancelled, err := svc.Cancel(ctx, appt.ID, patientP.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CanceledBy)
	assert.Equal(t, models.CanceledByPatient, *cancelled.CanceledBy)

	// The freed slot can be booked again
	again, err := svc.Book(ctx, patientQ.ID, slot.ID, "Chest pain follow-up")
	require.NoError(t, err)
	assert.Equal(t, models.StatusBooked, again.Status)
}

func TestBookReasonTooShort(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	patient := seedPatient(t, db, "p@example.com")
	slot := seedSlot(t, db, doctor.ID, futureDate(3), "10:00", "10:30")

	_, err := svc.Book(context.Background(), patient.ID, slot.ID, "  ok  ")
	assert.True(t, IsValidation(err), "expected a validation error, got %v", err)

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Zero(t, count, "no appointment row may be created on validation failure")
}

func TestBookBlacklistedPatient(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	patient := seedPatient(t, db, "p@example.com")
	slot := seedSlot(t, db, doctor.ID, futureDate(3), "10:00", "10:30")

	patient.IsBlacklisted = true
	require.NoError(t, db.Save(patient).Error)

	_, err := svc.Book(context.Background(), patient.ID, slot.ID, "Annual checkup")
	assert.ErrorIs(t, err, ErrForbidden)

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBookUnknownSlot(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)
	patient := seedPatient(t, db, "p@example.com")

	_, err := svc.Book(context.Background(), patient.ID, "b5ad8665-0fb9-4b54-9c0b-315a6b57278e", "Annual checkup")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookConcurrent(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	patientP := seedPatient(t, db, "p@example.com")
	patientQ := seedPatient(t, db, "q@example.com")
	slot := seedSlot(t, db, doctor.ID, futureDate(5), "09:00", "09:30")

	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i, patientID := range []string{patientP.ID, patientQ.ID} {
		wg.Add(1)
		go func(i int, patientID string) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), patientID, slot.ID, "Annual checkup")
		}(i, patientID)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		default:
			assert.ErrorIs(t, err, ErrSlotConflict)
			lost++
		}
	}
	assert.Equal(t, 1, won, "exactly one booking must win")
	assert.Equal(t, 1, lost, "the other must lose with a slot conflict")

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).
		Where("status <> ?", models.StatusCancelled).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// The partial unique index, not the pre-check, is the authoritative guard:
// inserting a conflicting row directly must fail, and a cancelled row must
// not block a new insert.
func TestUniqueIndexIsAuthoritative(t *testing.T) {
	db := newTestDB(t)

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	patient := seedPatient(t, db, "p@example.com")

	start := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	first := models.Appointment{
		PatientID:        patient.ID,
		DoctorID:         doctor.ID,
		AppointmentStart: start,
		AppointmentEnd:   start.Add(30 * time.Minute),
		Status:           models.StatusBooked,
		Reason:           "Annual checkup",
	}
	require.NoError(t, db.Create(&first).Error)

	duplicate := first
	duplicate.ID = ""
	err := db.Create(&duplicate).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	canceledBy := models.CanceledByPatient
	first.Status = models.StatusCancelled
	first.CanceledBy = &canceledBy
	require.NoError(t, db.Save(&first).Error)

	rebooked := first
	rebooked.ID = ""
	rebooked.Status = models.StatusBooked
	rebooked.CanceledBy = nil
	assert.NoError(t, db.Create(&rebooked).Error)
}

func TestCancelNotOwner(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)
	ctx := context.Background()

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	owner := seedPatient(t, db, "p@example.com")
	other := seedPatient(t, db, "q@example.com")
	slot := seedSlot(t, db, doctor.ID, futureDate(3), "11:00", "11:30")

	appt, err := svc.Book(ctx, owner.ID, slot.ID, "Annual checkup")
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, appt.ID, other.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	var reloaded models.Appointment
	require.NoError(t, db.First(&reloaded, "id = ?", appt.ID).Error)
	assert.Equal(t, models.StatusBooked, reloaded.Status)
}

func TestCancelCompletedAppointment(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)
	ctx := context.Background()

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	patient := seedPatient(t, db, "p@example.com")
	slot := seedSlot(t, db, doctor.ID, futureDate(3), "11:00", "11:30")

	appt, err := svc.Book(ctx, patient.ID, slot.ID, "Annual checkup")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, appt.ID, doctor.ID, nil)
	require.NoError(t, err)

	_, err = svc.Cancel(ctx, appt.ID, patient.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var reloaded models.Appointment
	require.NoError(t, db.First(&reloaded, "id = ?", appt.ID).Error)
	assert.Equal(t, models.StatusCompleted, reloaded.Status)
}

func TestCompleteRecordsTreatment(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)
	ctx := context.Background()

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	patient := seedPatient(t, db, "p@example.com")
	slot := seedSlot(t, db, doctor.ID, futureDate(3), "14:00", "14:30")

	appt, err := svc.Book(ctx, patient.ID, slot.ID, "Annual checkup")
	require.NoError(t, err)

	completed, err := svc.Complete(ctx, appt.ID, doctor.ID, &TreatmentInput{
		Diagnosis:    "Hypertension",
		Prescription: "Lisinopril 10mg",
		Notes:        "Review in three months",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	var treatment models.Treatment
	require.NoError(t, db.First(&treatment, "appointment_id = ?", appt.ID).Error)
	assert.Equal(t, "Hypertension", treatment.Diagnosis)
}

func TestCompleteWrongDoctor(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)
	ctx := context.Background()

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	otherDoctor := seedDoctor(t, db, "doc2@example.com", dept)
	patient := seedPatient(t, db, "p@example.com")
	slot := seedSlot(t, db, doctor.ID, futureDate(3), "14:00", "14:30")

	appt, err := svc.Book(ctx, patient.ID, slot.ID, "Annual checkup")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, appt.ID, otherDoctor.ID, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeclareSlotValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)
	ctx := context.Background()

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)

	_, err := svc.DeclareSlot(ctx, doctor.ID, futureDate(1), "10:00", "09:00")
	assert.True(t, IsValidation(err), "end before start must fail, got %v", err)

	_, err = svc.DeclareSlot(ctx, doctor.ID, futureDate(1), "10:00", "10:00")
	assert.True(t, IsValidation(err), "zero-length slot must fail, got %v", err)

	_, err = svc.DeclareSlot(ctx, doctor.ID, futureDate(-1), "10:00", "11:00")
	assert.True(t, IsValidation(err), "past date must fail, got %v", err)

	_, err = svc.DeclareSlot(ctx, "b5ad8665-0fb9-4b54-9c0b-315a6b57278e", futureDate(1), "10:00", "11:00")
	assert.ErrorIs(t, err, ErrNotFound)

	slot, err := svc.DeclareSlot(ctx, doctor.ID, futureDate(1), "10:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, doctor.ID, slot.DoctorID)
}

func TestListUpcomingSlots(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)
	ctx := context.Background()

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	patient := seedPatient(t, db, "p@example.com")

	seedSlot(t, db, doctor.ID, futureDate(2), "14:00", "14:30")
	seedSlot(t, db, doctor.ID, futureDate(2), "09:00", "09:30")
	early := seedSlot(t, db, doctor.ID, futureDate(1), "16:00", "16:30")
	seedSlot(t, db, doctor.ID, futureDate(-2), "10:00", "10:30") // past, excluded

	slots, err := svc.ListUpcomingSlots(ctx, doctor.ID, futureDate(0))
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, early.ID, slots[0].ID)
	assert.Equal(t, "09:00", slots[1].StartTime)
	assert.Equal(t, "14:00", slots[2].StartTime)

	// Booking a slot does not consume it: it stays listed, and the
	// appointment uniqueness rule handles contention.
	_, err = svc.Book(ctx, patient.ID, early.ID, "Annual checkup")
	require.NoError(t, err)

	slots, err = svc.ListUpcomingSlots(ctx, doctor.ID, futureDate(0))
	require.NoError(t, err)
	assert.Len(t, slots, 3)
}

func TestPatientHistoryOnlyCompleted(t *testing.T) {
	db := newTestDB(t)
	svc := NewSchedulingService(db)
	ctx := context.Background()

	dept := seedDepartment(t, db, "Cardiology")
	doctor := seedDoctor(t, db, "doc@example.com", dept)
	patient := seedPatient(t, db, "p@example.com")

	slotA := seedSlot(t, db, doctor.ID, futureDate(1), "09:00", "09:30")
	slotB := seedSlot(t, db, doctor.ID, futureDate(2), "09:00", "09:30")

	apptA, err := svc.Book(ctx, patient.ID, slotA.ID, "Annual checkup")
	require.NoError(t, err)
	_, err = svc.Book(ctx, patient.ID, slotB.ID, "Follow-up visit")
	require.NoError(t, err)

	_, err = svc.Complete(ctx, apptA.ID, doctor.ID, nil)
	require.NoError(t, err)

	history, err := svc.PatientHistory(ctx, patient.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, apptA.ID, history[0].ID)

	all, err := svc.PatientAppointments(ctx, patient.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
