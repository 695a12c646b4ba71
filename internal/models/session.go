package models

import "time"

// Session stores user login sessions (for logout, invalidation).
// The ID is the opaque value placed in the session cookie.
type Session struct {
	ID        string    `gorm:"primaryKey;size:64"` // UUID
	UserID    uint      `gorm:"index;not null"`
	Provider  string    `gorm:"size:16;not null;default:local"` // how the user authenticated
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}

// Expired reports whether the session is past its time-to-live.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
