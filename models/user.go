// user.go - Defines the User model for the database

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the binary user-type flag.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool { return r == RoleStudent || r == RoleAdmin }

// Profile holds the fields that only make sense for one role. It is either a
// StudentProfile or an AdminProfile.
type Profile interface {
	Role() Role
}

type StudentProfile struct {
	StudentID string
	Course    string
	Semester  string
}

func (StudentProfile) Role() Role { return RoleStudent }

type AdminProfile struct {
	AdminCode  string
	Department string
}

func (AdminProfile) Role() Role { return RoleAdmin }

type User struct { // User struct represents a user in the database
	ID           string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FirstName    string    `gorm:"not null" json:"firstName"`
	MiddleName   string    `json:"middleName"`
	LastName     string    `gorm:"not null" json:"lastName"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"` // stored lowercased, unique
	PhoneNumber  string    `gorm:"not null" json:"phoneNumber"`
	UserType     Role      `gorm:"not null;default:'student'" json:"userType"`
	PasswordHash string    `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	StudentID    string    `json:"studentId,omitempty"`
	Course       string    `json:"course,omitempty"`
	Semester     string    `json:"semester,omitempty"`
	AdminCode    string    `json:"-"`
	Department   string    `json:"department,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// SetProfile stamps the role and its fields, clearing the other role's fields.
func (u *User) SetProfile(p Profile) {
	u.StudentID, u.Course, u.Semester = "", "", ""
	u.AdminCode, u.Department = "", ""

	switch v := p.(type) {
	case StudentProfile:
		u.UserType = RoleStudent
		u.StudentID, u.Course, u.Semester = v.StudentID, v.Course, v.Semester
	case AdminProfile:
		u.UserType = RoleAdmin
		u.AdminCode, u.Department = v.AdminCode, v.Department
	}
}

func (u User) Profile() Profile {
	if u.UserType == RoleAdmin {
		return AdminProfile{AdminCode: u.AdminCode, Department: u.Department}
	}
	return StudentProfile{StudentID: u.StudentID, Course: u.Course, Semester: u.Semester}
}

// UserSummary is what auth responses expose about a user.
type UserSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	UserType  Role   `json:"userType"`
}

func (u User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		UserType:  u.UserType,
	}
}
