package models

import "time"

// DoctorProfile holds the doctor-specific half of a DOCTOR user.
type DoctorProfile struct {
	BaseModel
	UserID        string `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	DepartmentID  string `gorm:"size:36;index;not null" json:"departmentId"`
	Qualification string `gorm:"size:255" json:"qualification"`

	User              User               `gorm:"foreignKey:UserID" json:"-"`
	Department        Department         `gorm:"foreignKey:DepartmentID" json:"-"`
	AvailabilitySlots []AvailabilitySlot `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"-"`
	Appointments      []Appointment      `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE" json:"-"`
}

// PatientProfile holds the patient-specific half of a PATIENT user.
// A blacklisted patient is denied new bookings.
type PatientProfile struct {
	BaseModel
	UserID        string     `gorm:"size:36;uniqueIndex;not null" json:"userId"`
	Phone         string     `gorm:"size:20" json:"phone"`
	Address       string     `gorm:"size:200" json:"address"`
	Gender        string     `gorm:"size:10" json:"gender"`
	DateOfBirth   *time.Time `gorm:"type:date" json:"dateOfBirth,omitempty"`
	IsBlacklisted bool       `gorm:"default:false" json:"isBlacklisted"`

	User         User          `gorm:"foreignKey:UserID" json:"-"`
	Appointments []Appointment `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE" json:"-"`
}
