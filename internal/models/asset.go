package models

import (
	"time"

	"gorm.io/datatypes"
)

// AssetStatus is the normalized compliance state of a finding.
type AssetStatus string

const (
	AssetCompliant    AssetStatus = "compliant"
	AssetNonCompliant AssetStatus = "non-compliant"
	AssetWarning      AssetStatus = "warning"
	AssetUnknown      AssetStatus = "unknown"
)

// Severity is the normalized severity of a finding.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Asset is a cached snapshot of one resource finding fetched from the
// Prowler API. Assets are bulk-replaced per configuration on every sync
// and never mutated individually.
type Asset struct {
	ID              uint           `gorm:"primaryKey"`
	ConfigurationID uint           `gorm:"index;not null"`
	ResourceID      string         `gorm:"size:512;not null"`
	ResourceName    string         `gorm:"size:512;not null"`
	ResourceType    string         `gorm:"size:128;index;not null"`
	Region          string         `gorm:"size:64"`
	Status          AssetStatus    `gorm:"size:16;index;not null;default:unknown"`
	Severity        Severity       `gorm:"size:16;index"`
	RawPayload      datatypes.JSON `gorm:"type:json"`
	LastCheckedAt   *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Configuration Configuration `gorm:"constraint:OnDelete:CASCADE"`
}
