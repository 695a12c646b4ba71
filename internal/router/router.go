package router

import (
	"time"

	"github.com/pranavanil47/prowlerdash/internal/auth"
	"github.com/pranavanil47/prowlerdash/internal/config"
	"github.com/pranavanil47/prowlerdash/internal/handler"
	"github.com/pranavanil47/prowlerdash/internal/middleware"
	"github.com/pranavanil47/prowlerdash/internal/prowler"
	"github.com/pranavanil47/prowlerdash/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter wires the components together and configures the Gin
// engine. Every component receives the shared gorm handle here; nothing
// reaches for global state.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	authenticator := auth.New(db, cfg.Security.BcryptCost)
	sessions := auth.NewSessions(db, time.Duration(cfg.Session.TTLDays)*24*time.Hour)
	configs := service.NewConfigService(db, cfg.Security.BcryptCost)
	assets := service.NewAssetService(db)
	probe := prowler.NewClient(time.Duration(cfg.Prowler.TimeoutSeconds) * time.Second)

	healthHandler := handler.NewHealthHandler()
	authHandler := handler.NewAuthHandler(authenticator, sessions, cfg.Session.CookieName, cfg.Production())
	userHandler := handler.NewUserHandler(authenticator)
	configHandler := handler.NewConfigHandler(configs, probe)
	assetHandler := handler.NewAssetHandler(configs, assets)

	api := r.Group("/api")

	// open endpoints
	api.GET("/health", healthHandler.Health)
	api.POST("/login/local", authHandler.Login)
	api.POST("/register", authHandler.Register)

	// session-gated endpoints
	protected := api.Group("")
	protected.Use(middleware.RequireSession(sessions, cfg.Session.CookieName))

	protected.POST("/logout", authHandler.Logout)
	protected.GET("/auth/user", authHandler.Me)

	protected.GET("/prowler/configuration", configHandler.Get)
	protected.POST("/prowler/configuration", configHandler.Save)
	protected.POST("/prowler/test-connection", configHandler.TestConnection)

	protected.GET("/assets", assetHandler.List)
	protected.GET("/assets/stats", assetHandler.Stats)
	protected.POST("/assets/sync", assetHandler.Sync)
	protected.GET("/assets/export/csv", assetHandler.ExportCSV)
	protected.GET("/assets/export/xlsx", assetHandler.ExportXLSX)

	// admin-gated endpoints
	admin := protected.Group("")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/users", userHandler.List)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Update)
	admin.DELETE("/users/:id", userHandler.Delete)

	return r
}
