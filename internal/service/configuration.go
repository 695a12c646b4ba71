package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrNotFound is returned when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ConfigService owns the one-active-configuration-per-user invariant.
// The Prowler password is stored as a one-way bcrypt hash, so a stored
// configuration can never re-authenticate against Prowler on its own;
// the sync endpoint reports "requires reconfiguration" instead.
type ConfigService struct {
	db         *gorm.DB
	bcryptCost int
}

func NewConfigService(db *gorm.DB, bcryptCost int) *ConfigService {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &ConfigService{db: db, bcryptCost: bcryptCost}
}

// Save validates the profile, then in one transaction deactivates every
// existing configuration for the user and inserts a fresh active row.
// Concurrent saves race at the store, not in the application: last write
// wins and at most one row stays active.
func (s *ConfigService) Save(userID uint, prowlerURL, email, password string) (*models.Configuration, error) {
	var fields []util.FieldError
	if err := util.ValidateURL(strings.TrimSpace(prowlerURL)); err != nil {
		fields = append(fields, util.FieldError{Field: "prowlerUrl", Message: "must be an absolute http(s) URL"})
	}
	if err := util.ValidateEmail(util.NormalizeEmail(email)); err != nil {
		fields = append(fields, util.FieldError{Field: "prowlerEmail", Message: "must be a valid email address"})
	}
	if password == "" {
		fields = append(fields, util.FieldError{Field: "prowlerPassword", Message: "is required"})
	}
	if len(fields) > 0 {
		return nil, &util.InvalidInput{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash prowler password: %w", err)
	}

	cfg := models.Configuration{
		UserID:           userID,
		ProwlerURL:       strings.TrimSpace(prowlerURL),
		ProwlerEmail:     util.NormalizeEmail(email),
		PasswordHash:     string(hash),
		Active:           true,
		ConnectionStatus: models.StatusDisconnected,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Configuration{}).
			Where("user_id = ? AND active = ?", userID, true).
			Update("active", false).Error; err != nil {
			return fmt.Errorf("deactivate configurations: %w", err)
		}
		if err := tx.Create(&cfg).Error; err != nil {
			return fmt.Errorf("create configuration: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Get returns the user's active configuration, or ErrNotFound.
func (s *ConfigService) Get(userID uint) (*models.Configuration, error) {
	var cfg models.Configuration
	err := s.db.Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		First(&cfg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get configuration: %w", err)
	}
	return &cfg, nil
}

// UpdateStatus records the outcome of a connectivity probe or sync
// attempt on the configuration.
func (s *ConfigService) UpdateStatus(configID uint, status models.ConnectionStatus, lastSyncAt *time.Time) error {
	updates := map[string]any{"connection_status": status}
	if lastSyncAt != nil {
		updates["last_sync_at"] = *lastSyncAt
	}
	res := s.db.Model(&models.Configuration{}).Where("id = ?", configID).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("update configuration status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
