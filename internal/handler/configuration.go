package handler

import (
	"errors"
	"net/http"

	"github.com/pranavanil47/prowlerdash/internal/middleware"
	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/prowler"
	"github.com/pranavanil47/prowlerdash/internal/service"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"github.com/gin-gonic/gin"
)

// ConfigHandler serves the Prowler configuration endpoints.
type ConfigHandler struct {
	configs *service.ConfigService
	probe   *prowler.Client
}

func NewConfigHandler(configs *service.ConfigService, probe *prowler.Client) *ConfigHandler {
	return &ConfigHandler{configs: configs, probe: probe}
}

// Get returns the caller's active configuration, or null when none
// exists yet.
func (h *ConfigHandler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	cfg, err := h.configs.Get(user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"configuration": nil})
			return
		}
		util.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"configuration": toConfigResp(cfg)})
}

type saveConfigReq struct {
	ProwlerURL      string `json:"prowlerUrl" binding:"required"`
	ProwlerEmail    string `json:"prowlerEmail" binding:"required"`
	ProwlerPassword string `json:"prowlerPassword" binding:"required"`
}

// Save replaces the caller's active configuration.
func (h *ConfigHandler) Save(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req saveConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	cfg, err := h.configs.Save(user.ID, req.ProwlerURL, req.ProwlerEmail, req.ProwlerPassword)
	if err != nil {
		if !writeInputError(c, err) {
			util.InternalError(c, err)
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"configuration": toConfigResp(cfg)})
}

// TestConnection probes the supplied Prowler deployment with a login +
// health round trip and records the outcome on the active configuration
// if one exists. Upstream failure is data, not an error.
func (h *ConfigHandler) TestConnection(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req saveConfigReq
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c)
		return
	}

	result := h.probe.TestConnection(c.Request.Context(), req.ProwlerURL, req.ProwlerEmail, req.ProwlerPassword)

	if cfg, err := h.configs.Get(user.ID); err == nil {
		status := models.StatusError
		if result.Success {
			status = models.StatusConnected
		}
		if err := h.configs.UpdateStatus(cfg.ID, status, nil); err != nil {
			util.InternalError(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, result)
}
