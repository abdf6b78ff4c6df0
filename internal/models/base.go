package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// BaseModel contains common columns for all tables
type BaseModel struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate will set a UUID rather than numeric ID
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == "" {
		base.ID = uuid.New().String()
	}
	return nil
}

// InitDB initializes the database connection and schema.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	// TranslateError turns driver duplicate-key errors into
	// gorm.ErrDuplicatedKey, which the booking path depends on.
	db, err := gorm.Open(postgres.Open(config.DSN), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and the scheduling constraints. Split out
// from InitDB so tests can run it against their own database.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&Department{},
		&DoctorProfile{},
		&PatientProfile{},
		&AvailabilitySlot{},
		&Appointment{},
		&Treatment{},
	)
	if err != nil {
		return err
	}

	// At most one non-cancelled appointment may exist per
	// (doctor_id, appointment_start). Cancelled rows are excluded so a
	// freed slot can be booked again. AutoMigrate cannot express the
	// WHERE clause, so the index is created explicitly; the statement is
	// valid on both PostgreSQL and SQLite.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uq_doctor_appointment_slot
		ON appointments (doctor_id, appointment_start)
		WHERE status <> 'CANCELLED'`).Error
	if err != nil {
		return err
	}

	return db.Exec(`CREATE INDEX IF NOT EXISTS ix_doctor_start
		ON appointments (doctor_id, appointment_start)`).Error
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	DSN string
}
