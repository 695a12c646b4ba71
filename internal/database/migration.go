package database

import (
	"fmt"

	"github.com/pranavanil47/prowlerdash/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models. The unique
// indexes on users.username and users.email are the authoritative
// duplicate check during registration.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Configuration{},
		&models.Asset{},
		&models.Session{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
