// Package handler maps the HTTP surface onto the auth, service and
// prowler components. Handlers bind and translate; the components own
// the semantics.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/util"

	"github.com/gin-gonic/gin"
)

// userResp is the externally visible projection of a user. The password
// hash never appears in a response body.
type userResp struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func toUserResp(u *models.User) userResp {
	return userResp{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// configResp is the externally visible projection of a configuration,
// with the password hash stripped.
type configResp struct {
	ID               uint                    `json:"id"`
	ProwlerURL       string                  `json:"prowlerUrl"`
	ProwlerEmail     string                  `json:"prowlerEmail"`
	Active           bool                    `json:"active"`
	ConnectionStatus models.ConnectionStatus `json:"connectionStatus"`
	LastSyncAt       *time.Time              `json:"lastSyncAt"`
	CreatedAt        time.Time               `json:"createdAt"`
}

func toConfigResp(cfg *models.Configuration) configResp {
	return configResp{
		ID:               cfg.ID,
		ProwlerURL:       cfg.ProwlerURL,
		ProwlerEmail:     cfg.ProwlerEmail,
		Active:           cfg.Active,
		ConnectionStatus: cfg.ConnectionStatus,
		LastSyncAt:       cfg.LastSyncAt,
		CreatedAt:        cfg.CreatedAt,
	}
}

// writeInputError handles the shared validation/duplicate error shapes;
// returns false when err is something else and the caller must map it.
func writeInputError(c *gin.Context, err error) bool {
	var invalid *util.InvalidInput
	if errors.As(err, &invalid) {
		util.ValidationError(c, invalid.Fields)
		return true
	}
	return false
}

func bindError(c *gin.Context) {
	util.Error(c, http.StatusBadRequest, "invalid request body")
}
