package models

import "time"

// Role is a closed set: a user is either a regular user or an admin.
// Privileged routes go through User.IsAdmin, never raw string compares
// at call sites.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents application user.
type User struct {
	ID           uint   `gorm:"primaryKey"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"` // stored lowercase, trimmed
	PasswordHash string `gorm:"size:255"`                      // empty only pre-registration
	FirstName    string `gorm:"size:64;not null"`
	LastName     string `gorm:"size:64;not null"`
	Role         Role   `gorm:"size:16;index;not null;default:user"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may access admin-gated operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
