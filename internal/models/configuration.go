package models

import "time"

// ConnectionStatus reflects the last known state of a configuration's
// link to the Prowler API.
type ConnectionStatus string

const (
	StatusConnected    ConnectionStatus = "connected"
	StatusDisconnected ConnectionStatus = "disconnected"
	StatusError        ConnectionStatus = "error"
)

// Configuration is a user's stored connection profile for the Prowler API.
// At most one row per user has Active = true; saving a new configuration
// deactivates the previous ones instead of deleting them.
type Configuration struct {
	ID               uint             `gorm:"primaryKey"`
	UserID           uint             `gorm:"index;not null"`
	ProwlerURL       string           `gorm:"size:512;not null"`
	ProwlerEmail     string           `gorm:"size:255;not null"`
	PasswordHash     string           `gorm:"size:255;not null"` // bcrypt, one-way
	Active           bool             `gorm:"index;not null"`
	ConnectionStatus ConnectionStatus `gorm:"size:16;not null;default:disconnected"`
	LastSyncAt       *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
