package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
)

// User represents an account in the system. A user with role DOCTOR owns
// exactly one DoctorProfile, a user with role PATIENT exactly one
// PatientProfile; both are removed with the user.
type User struct {
	BaseModel
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;size:180;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Role     Role   `gorm:"size:20;not null" json:"role"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	// Relations (not always preloaded)
	DoctorProfile  *DoctorProfile  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	PatientProfile *PatientProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	RefreshTokens  []RefreshToken  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserSanitized represents the user data that is safe to send in API
// responses. The role-specific profile is carried as an explicit tagged
// field instead of being flattened into the user object.
type UserSanitized struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      Role            `json:"role"`
	IsActive  bool            `json:"isActive"`
	Doctor    *DoctorProfile  `json:"doctorProfile,omitempty"`
	Patient   *PatientProfile `json:"patientProfile,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Sanitize creates a UserSanitized struct from a User model, excluding
// sensitive data. Profiles are included only when preloaded.
func (u *User) Sanitize() UserSanitized {
	out := UserSanitized{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	switch u.Role {
	case RoleDoctor:
		out.Doctor = u.DoctorProfile
	case RolePatient:
		out.Patient = u.PatientProfile
	}
	return out
}
