package models

import (
	"time"
)

// Role values
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleConsultant = "consultant"
	RoleViewer     = "viewer"
)

// CaseManagementRoles lists roles allowed to assign, reassign and delete cases.
var CaseManagementRoles = []string{RoleAdmin, RoleManager}

// CanManageCases reports whether the role carries the case-management capability.
func CanManageCases(role string) bool {
	for _, r := range CaseManagementRoles {
		if r == role {
			return true
		}
	}
	return false
}

type User struct {
	UserID    string     `gorm:"primaryKey;column:user_id" json:"user_id"`
	FullName  string     `gorm:"column:full_name" json:"full_name"`
	Email     string     `gorm:"column:email;unique" json:"email"`
	Role      string     `gorm:"column:role" json:"role"`
	IsActive  bool       `gorm:"column:is_active" json:"is_active"`
	CreatedAt time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}
