package models

// Treatment is the clinical outcome attached to a completed appointment.
// At most one per appointment; removed with the appointment.
type Treatment struct {
	BaseModel
	AppointmentID string `gorm:"size:36;uniqueIndex;not null" json:"appointmentId"`
	Diagnosis     string `gorm:"size:255" json:"diagnosis"`
	Prescription  string `gorm:"type:text" json:"prescription"`
	Notes         string `gorm:"type:text" json:"notes"`

	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"-"`
}
