package models

import "time"

// EmployeeModel is a directory entry shown in the roster and the birthday
// congratulation screens.
type EmployeeModel struct {
	Base
	FirstName  string     `json:"firstName"  gorm:"not null"`
	LastName   string     `json:"lastName"   gorm:"not null"`
	Department string     `json:"department" gorm:"index"`
	Position   string     `json:"position"`
	Role       string     `json:"role"       gorm:"index;default:'user'"` // user | admin
	Birthday   *time.Time `json:"birthday"`
	AvatarURL  string     `json:"avatarUrl"`
	Phone      string     `json:"phone"`
	Email      string     `json:"email"`
}

func (EmployeeModel) TableName() string { return "employees" }

// FullName returns "First Last" with empty parts skipped.
func (e *EmployeeModel) FullName() string {
	switch {
	case e.FirstName == "":
		return e.LastName
	case e.LastName == "":
		return e.FirstName
	}
	return e.FirstName + " " + e.LastName
}
