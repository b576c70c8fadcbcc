package models

import (
	"time"

	"gorm.io/gorm"
)

// UserStatus tracks the approval state of an account. Only approved users may check in.
type UserStatus string

const (
	UserPending  UserStatus = "pending"
	UserApproved UserStatus = "approved"
	UserRejected UserStatus = "rejected"
)

// Valid reports whether s is a known status.
func (s UserStatus) Valid() bool {
	switch s {
	case UserPending, UserApproved, UserRejected:
		return true
	}
	return false
}

// User represents an employee account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:64;uniqueIndex;not null" json:"username"`
	FullName     string         `gorm:"size:128" json:"full_name"`
	Email        string         `gorm:"size:255" json:"email"`
	PasswordHash string         `gorm:"size:255" json:"-"`
	CompanyID    uint           `gorm:"index;not null" json:"company_id"`
	Company      Company        `json:"-"`
	DepartmentID *uint          `gorm:"index" json:"department_id"`
	Role         Role           `gorm:"size:32;not null;default:employee" json:"role"`
	Status       UserStatus     `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate fills in role and status defaults and makes sure timestamps are set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = RoleEmployee
	}
	if u.Status == "" {
		u.Status = UserPending
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now().UTC()
	return nil
}
