package main

import (
	"fmt"
	"log"
	"time"

	"github.com/pranavanil47/prowlerdash/internal/auth"
	"github.com/pranavanil47/prowlerdash/internal/config"
	"github.com/pranavanil47/prowlerdash/internal/database"
	"github.com/pranavanil47/prowlerdash/internal/models"
	"github.com/pranavanil47/prowlerdash/internal/router"

	"gorm.io/gorm"
)

func main() {
	// load configuration; a missing session secret or database path is a
	// fatal startup error
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Printf("close database: %v", err)
		}
	}()

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// sweep sessions left over from before the last shutdown
	sessions := auth.NewSessions(db, time.Duration(cfg.Session.TTLDays)*24*time.Hour)
	if n, err := sessions.DeleteExpired(); err != nil {
		log.Printf("sweep sessions: %v", err)
	} else if n > 0 {
		log.Printf("removed %d expired sessions", n)
	}

	if err := seedAdmin(db, cfg); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

// seedAdmin creates the initial admin account when none exists yet and
// credentials are configured. Without it the admin surface would be
// unreachable on a fresh database.
func seedAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.Admin.Username == "" || cfg.Admin.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	authenticator := auth.New(db, cfg.Security.BcryptCost)
	email := cfg.Admin.Email
	if email == "" {
		email = cfg.Admin.Username + "@localhost.local"
	}
	user, err := authenticator.CreateUser(auth.RegisterProfile{
		Username:  cfg.Admin.Username,
		Email:     email,
		FirstName: "Admin",
		LastName:  "User",
		Password:  cfg.Admin.Password,
	}, models.RoleAdmin)
	if err != nil {
		return err
	}

	log.Printf("seeded admin user %q", user.Username)
	return nil
}
