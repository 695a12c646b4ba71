package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/middleware"
	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/service"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"github.com/gin-gonic/gin"
)

// AssetHandler serves the asset query, stats and sync endpoints. Every
// route requires an active Prowler configuration; without one the answer
// is a 404, which is distinct from a configuration with zero assets.
type AssetHandler struct {
	configs *service.ConfigService
	assets  *service.AssetService
}

func NewAssetHandler(configs *service.ConfigService, assets *service.AssetService) *AssetHandler {
	return &AssetHandler{configs: configs, assets: assets}
}

type assetResp struct {
	ID            uint               `json:"id"`
	ResourceID    string             `json:"resourceId"`
	ResourceName  string             `json:"resourceName"`
	ResourceType  string             `json:"resourceType"`
	Region        string             `json:"region,omitempty"`
	Status        models.AssetStatus `json:"status"`
	Severity      models.Severity    `json:"severity,omitempty"`
	LastCheckedAt *time.Time         `json:"lastCheckedAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

func toAssetResp(a *models.Asset) assetResp {
	return assetResp{
		ID:            a.ID,
		ResourceID:    a.ResourceID,
		ResourceName:  a.ResourceName,
		ResourceType:  a.ResourceType,
		Region:        a.Region,
		Status:        a.Status,
		Severity:      a.Severity,
		LastCheckedAt: a.LastCheckedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// activeConfig resolves the caller's active configuration or writes the
// 404 the asset routes share.
func (h *AssetHandler) activeConfig(c *gin.Context) (*models.Configuration, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return nil, false
	}

	cfg, err := h.configs.Get(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			util.Error(c, http.StatusNotFound, "no prowler configuration found")
		} else {
			util.InternalError(c, err)
		}
		return nil, false
	}
	return cfg, true
}

func filterFromQuery(c *gin.Context) service.AssetFilter {
	return service.AssetFilter{
		ResourceType: c.Query("resourceType"),
		Status:       c.Query("status"),
		Severity:     c.Query("severity"),
		Search:       c.Query("search"),
	}
}

// List returns the caller's assets, newest first, narrowed by the
// optional query params resourceType, status, severity and search.
func (h *AssetHandler) List(c *gin.Context) {
	cfg, ok := h.activeConfig(c)
	if !ok {
		return
	}

	assets, err := h.assets.Query(cfg.ID, filterFromQuery(c))
	if err != nil {
		util.InternalError(c, err)
		return
	}

	resp := make([]assetResp, 0, len(assets))
	for i := range assets {
		resp = append(resp, toAssetResp(&assets[i]))
	}
	c.JSON(http.StatusOK, gin.H{"assets": resp})
}

// Stats returns the aggregate counts and the latest scan timestamp.
func (h *AssetHandler) Stats(c *gin.Context) {
	cfg, ok := h.activeConfig(c)
	if !ok {
		return
	}

	stats, err := h.assets.Stats(cfg.ID)
	if err != nil {
		util.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Sync is a deliberate stub. The stored Prowler password is a one-way
// hash, so the server cannot re-authenticate upstream on the user's
// behalf; a real sync needs the plaintext again.
func (h *AssetHandler) Sync(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"message":                 "stored credentials cannot be used to sync, please reconfigure",
		"requiresReconfiguration": true,
	})
}
