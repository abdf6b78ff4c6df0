package models

// Department is reference data; doctors belong to exactly one department.
type Department struct {
	BaseModel
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`

	Doctors []DoctorProfile `gorm:"foreignKey:DepartmentID" json:"-"`
}
