package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"hospital-app-server/internal/models"
)

// newTestDB opens an in-memory SQLite database with the production schema.
// A single connection keeps the in-memory database alive and shared.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, models.Migrate(db))
	return db
}

func seedDepartment(t *testing.T, db *gorm.DB, name string) *models.Department {
	t.Helper()
	dept := &models.Department{Name: name}
	require.NoError(t, db.Create(dept).Error)
	return dept
}

func seedDoctor(t *testing.T, db *gorm.DB, email string, dept *models.Department) *models.DoctorProfile {
	t.Helper()
	user := &models.User{Name: "Dr. " + email, Email: email, Role: models.RoleDoctor, IsActive: true}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	profile := &models.DoctorProfile{UserID: user.ID, DepartmentID: dept.ID, Qualification: "MD"}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func seedPatient(t *testing.T, db *gorm.DB, email string) *models.PatientProfile {
	t.Helper()
	user := &models.User{Name: "Patient " + email, Email: email, Role: models.RolePatient, IsActive: true}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)

	profile := &models.PatientProfile{UserID: user.ID, Phone: "+1 555 0100"}
	require.NoError(t, db.Create(profile).Error)
	return profile
}

func seedSlot(t *testing.T, db *gorm.DB, doctorID string, date time.Time, start, end string) *models.AvailabilitySlot {
	t.Helper()
	slot := &models.AvailabilitySlot{DoctorID: doctorID, Date: date, StartTime: start, EndTime: end}
	require.NoError(t, db.Create(slot).Error)
	return slot
}

func futureDate(days int) time.Time {
	d := time.Now().UTC().AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
