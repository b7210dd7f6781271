package model

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles
const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleUser       = "user"
	RoleChef       = "chef"
	RoleReception  = "reception"
)

// ValidRole reports whether role is one of the five staff roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleUser, RoleChef, RoleReception:
		return true
	}
	return false
}

// User represents a staff user. CafeID is nil only for super-admins; the
// role of every other user is meaningful only within its cafe.
type User struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CafeID      *uint          `json:"cafe_id,omitempty" gorm:"index"`
	Email       string         `json:"email" gorm:"type:varchar(100);uniqueIndex;not null"`
	Username    string         `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Password    string         `json:"-" gorm:"type:varchar(255);not null"`
	Role        string         `json:"role" gorm:"type:varchar(20);not null"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsSuperAdmin reports whether the user holds the global super-admin role.
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}
