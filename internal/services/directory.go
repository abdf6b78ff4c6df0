package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"hospital-app-server/internal/models"
)

// DirectoryService manages users, profiles and departments: the reference
// data the scheduler operates against.
type DirectoryService struct {
	DB *gorm.DB
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(db *gorm.DB) *DirectoryService {
	return &DirectoryService{DB: db}
}

// CreateDoctorInput carries the fields for creating a doctor account.
type CreateDoctorInput struct {
	Name          string
	Email         string
	Password      string
	DepartmentID  string
	Qualification string
}

// CreateDoctor creates the User and its DoctorProfile in one transaction
// so a failure cannot leave an orphaned user behind.
func (s *DirectoryService) CreateDoctor(ctx context.Context, in CreateDoctorInput) (*models.User, error) {
	db := s.DB.WithContext(ctx)

	var dept models.Department
	if err := db.First(&dept, "id = ?", in.DepartmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("departmentId", "invalid department selected")
		}
		return nil, err
	}

	user := models.User{
		Name:     in.Name,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Role:     models.RoleDoctor,
		IsActive: true,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.DoctorProfile{
			UserID:        user.ID,
			DepartmentID:  in.DepartmentID,
			Qualification: in.Qualification,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.DoctorProfile = &profile
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("email", "email already exists")
		}
		return nil, err
	}
	return &user, nil
}

// RegisterPatientInput carries the fields for patient self-registration.
type RegisterPatientInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
	Gender   string
	DOB      *time.Time
}

// RegisterPatient creates the User and its PatientProfile atomically.
func (s *DirectoryService) RegisterPatient(ctx context.Context, in RegisterPatientInput) (*models.User, error) {
	if in.DOB != nil {
		if err := validateDateOfBirth(*in.DOB); err != nil {
			return nil, err
		}
	}

	user := models.User{
		Name:     in.Name,
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Role:     models.RolePatient,
		IsActive: true,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := models.PatientProfile{
			UserID:      user.ID,
			Phone:       in.Phone,
			Address:     in.Address,
			Gender:      in.Gender,
			DateOfBirth: in.DOB,
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.PatientProfile = &profile
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("email", "email already exists")
		}
		return nil, err
	}
	return &user, nil
}

// UpdateDoctorInput carries the updatable fields of a doctor account.
// Empty strings leave the current value unchanged; Password is optional.
type UpdateDoctorInput struct {
	Name          string
	Email         string
	Password      string
	DepartmentID  string
	Qualification string
}

// UpdateDoctor updates a doctor's user record and profile.
func (s *DirectoryService) UpdateDoctor(ctx context.Context, userID string, in UpdateDoctorInput) (*models.User, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	err := db.Preload("DoctorProfile").First(&user, "id = ? AND role = ?", userID, models.RoleDoctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Password != "" {
		if err := user.SetPassword(in.Password); err != nil {
			return nil, err
		}
	}
	if in.DepartmentID != "" {
		var dept models.Department
		if err := db.First(&dept, "id = ?", in.DepartmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, NewValidationError("departmentId", "invalid department selected")
			}
			return nil, err
		}
		user.DoctorProfile.DepartmentID = in.DepartmentID
	}
	if in.Qualification != "" {
		user.DoctorProfile.Qualification = in.Qualification
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Save(user.DoctorProfile).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("email", "email already exists")
		}
		return nil, err
	}
	return &user, nil
}

// UpdatePatientProfileInput carries the patient-editable profile fields.
type UpdatePatientProfileInput struct {
	Name    string
	Phone   string
	Address string
	Gender  string
	DOB     *time.Time
}

// UpdatePatientProfile updates a patient's own name and profile fields.
func (s *DirectoryService) UpdatePatientProfile(ctx context.Context, userID string, in UpdatePatientProfileInput) (*models.User, error) {
	db := s.DB.WithContext(ctx)

	var user models.User
	err := db.Preload("PatientProfile").First(&user, "id = ? AND role = ?", userID, models.RolePatient).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.Gender != "" && in.Gender != "male" && in.Gender != "female" && in.Gender != "other" {
		return nil, NewValidationError("gender", "must be one of male, female, other")
	}
	if len(in.Address) > 200 {
		return nil, NewValidationError("address", "must be at most 200 characters")
	}
	if in.DOB != nil {
		if err := validateDateOfBirth(*in.DOB); err != nil {
			return nil, err
		}
		user.PatientProfile.DateOfBirth = in.DOB
	}

	if in.Name != "" {
		user.Name = in.Name
	}
	if in.Phone != "" {
		user.PatientProfile.Phone = in.Phone
	}
	if in.Address != "" {
		user.PatientProfile.Address = in.Address
	}
	if in.Gender != "" {
		user.PatientProfile.Gender = in.Gender
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&user).Error; err != nil {
			return err
		}
		return tx.Save(user.PatientProfile).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func validateDateOfBirth(dob time.Time) error {
	if dob.After(time.Now()) {
		return NewValidationError("dateOfBirth", "must not be in the future")
	}
	if dob.Year() < 1900 {
		return NewValidationError("dateOfBirth", "too far in the past")
	}
	return nil
}

// DeleteUser removes a user; profiles, slots, appointments and treatments
// follow through the ON DELETE CASCADE foreign keys.
func (s *DirectoryService) DeleteUser(ctx context.Context, userID string) error {
	result := s.DB.WithContext(ctx).Delete(&models.User{}, "id = ?", userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBlacklisted toggles whether a patient may make new bookings.
func (s *DirectoryService) SetBlacklisted(ctx context.Context, patientUserID string, blacklisted bool) (*models.PatientProfile, error) {
	db := s.DB.WithContext(ctx)

	var profile models.PatientProfile
	if err := db.First(&profile, "user_id = ?", patientUserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	profile.IsBlacklisted = blacklisted
	if err := db.Save(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListDoctors returns doctor users, optionally filtered by a name search
// and a department.
func (s *DirectoryService) ListDoctors(ctx context.Context, search, departmentID string) ([]models.User, error) {
	query := s.DB.WithContext(ctx).
		Select("users.*").
		Preload("DoctorProfile").
		Joins("JOIN doctor_profiles ON doctor_profiles.user_id = users.id").
		Where("users.role = ?", models.RoleDoctor)
	if search != "" {
		query = query.Where("users.name LIKE ?", "%"+search+"%")
	}
	if departmentID != "" {
		query = query.Where("doctor_profiles.department_id = ?", departmentID)
	}

	var doctors []models.User
	if err := query.Find(&doctors).Error; err != nil {
		return nil, err
	}
	return doctors, nil
}

// ListPatients returns patient users, optionally filtered by a name search.
func (s *DirectoryService) ListPatients(ctx context.Context, search string) ([]models.User, error) {
	query := s.DB.WithContext(ctx).
		Preload("PatientProfile").
		Where("role = ?", models.RolePatient)
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var patients []models.User
	if err := query.Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

// GetUser fetches a user with its role profile preloaded.
func (s *DirectoryService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).
		Preload("DoctorProfile").
		Preload("PatientProfile").
		First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateDepartment adds a department.
func (s *DirectoryService) CreateDepartment(ctx context.Context, name string) (*models.Department, error) {
	dept := models.Department{Name: strings.TrimSpace(name)}
	if dept.Name == "" {
		return nil, NewValidationError("name", "is required")
	}
	if err := s.DB.WithContext(ctx).Create(&dept).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewValidationError("name", "department already exists")
		}
		return nil, err
	}
	return &dept, nil
}

// ListDepartments returns all departments ordered by name.
func (s *DirectoryService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	err := s.DB.WithContext(ctx).Order("name asc").Find(&depts).Error
	return depts, err
}

// Stats is the aggregate data behind the admin dashboard.
type Stats struct {
	TotalDoctors      int64             `json:"totalDoctors"`
	TotalPatients     int64             `json:"totalPatients"`
	TotalAppointments int64             `json:"totalAppointments"`
	ByDepartment      []DepartmentCount `json:"byDepartment"`
}

// DepartmentCount is the number of appointments booked per department.
type DepartmentCount struct {
	Department   string `json:"department"`
	Appointments int64  `json:"appointments"`
}

// AdminStats computes the admin dashboard aggregates.
func (s *DirectoryService) AdminStats(ctx context.Context) (*Stats, error) {
	db := s.DB.WithContext(ctx)
	stats := &Stats{}

	if err := db.Model(&models.User{}).Where("role = ?", models.RoleDoctor).Count(&stats.TotalDoctors).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Where("role = ?", models.RolePatient).Count(&stats.TotalPatients).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Appointment{}).Count(&stats.TotalAppointments).Error; err != nil {
		return nil, err
	}

	err := db.Model(&models.Appointment{}).
		Select("departments.name AS department, COUNT(appointments.id) AS appointments").
		Joins("JOIN doctor_profiles ON doctor_profiles.id = appointments.doctor_id").
		Joins("JOIN departments ON departments.id = doctor_profiles.department_id").
		Group("departments.name").
		Scan(&stats.ByDepartment).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
