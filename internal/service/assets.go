package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/models"

	"gorm.io/gorm"
)

// AssetFilter narrows a query. Zero values mean "no constraint"; the
// equality fields are ANDed together and pushed to the store, Search is
// applied afterwards in memory.
type AssetFilter struct {
	ResourceType string
	Status       string
	Severity     string
	Search       string
}

// AssetStats is the aggregate view over one configuration's assets.
type AssetStats struct {
	TotalResources     int64      `json:"totalResources"`
	CriticalIssues     int64      `json:"criticalIssues"`
	CompliantResources int64      `json:"compliantResources"`
	LastScan           *time.Time `json:"lastScan"`
}

// AssetService answers filtered queries and aggregates over the cached
// asset snapshots of a configuration.
type AssetService struct {
	db *gorm.DB
}

func NewAssetService(db *gorm.DB) *AssetService {
	return &AssetService{db: db}
}

// Query returns the configuration's assets ordered by last update,
// newest first. Equality filters run as a single conditional scan in the
// store; the substring search runs over the already-filtered rows,
// case-insensitively against resource name OR resource id. An empty
// result is a valid answer, not an error — distinguishing "no
// configuration" from "no assets" is the caller's job.
func (s *AssetService) Query(configID uint, filter AssetFilter) ([]models.Asset, error) {
	q := s.db.Where("configuration_id = ?", configID)
	if filter.ResourceType != "" {
		q = q.Where("resource_type = ?", filter.ResourceType)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}

	var assets []models.Asset
	if err := q.Order("updated_at DESC").Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}

	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		matched := assets[:0]
		for _, a := range assets {
			if strings.Contains(strings.ToLower(a.ResourceName), search) ||
				strings.Contains(strings.ToLower(a.ResourceID), search) {
				matched = append(matched, a)
			}
		}
		assets = matched
	}

	return assets, nil
}

// Stats loads every asset of the configuration and aggregates in one
// pass. A full scan per call is fine at the per-user volumes this domain
// sees (hundreds to low thousands of findings).
func (s *AssetService) Stats(configID uint) (*AssetStats, error) {
	var assets []models.Asset
	if err := s.db.Where("configuration_id = ?", configID).Find(&assets).Error; err != nil {
		return nil, fmt.Errorf("load assets: %w", err)
	}

	stats := AssetStats{TotalResources: int64(len(assets))}
	for _, a := range assets {
		if a.Severity == models.SeverityCritical {
			stats.CriticalIssues++
		}
		if a.Status == models.AssetCompliant {
			stats.CompliantResources++
		}
		checked := a.UpdatedAt
		if a.LastCheckedAt != nil {
			checked = *a.LastCheckedAt
		}
		if stats.LastScan == nil || checked.After(*stats.LastScan) {
			t := checked
			stats.LastScan = &t
		}
	}

	return &stats, nil
}

// ReplaceAll swaps the configuration's entire asset set in a single
// transaction, so concurrent readers never observe the empty window
// between delete and insert.
func (s *AssetService) ReplaceAll(configID uint, newAssets []models.Asset) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Asset{}, "configuration_id = ?", configID).Error; err != nil {
			return fmt.Errorf("delete previous assets: %w", err)
		}
		if len(newAssets) == 0 {
			return nil
		}
		for i := range newAssets {
			newAssets[i].ID = 0
			newAssets[i].ConfigurationID = configID
		}
		if err := tx.Create(&newAssets).Error; err != nil {
			return fmt.Errorf("insert assets: %w", err)
		}
		return nil
	})
}
