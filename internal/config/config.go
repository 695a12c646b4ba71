package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"` // gin mode; "release" marks production
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type SessionConfig struct {
	Secret     string `mapstructure:"secret"`
	CookieName string `mapstructure:"cookie_name"`
	TTLDays    int    `mapstructure:"ttl_days"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type ProwlerConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// AdminConfig seeds an initial admin account on first start. Without it
// the admin-only user management surface would be unreachable.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Security SecurityConfig `mapstructure:"security"`
	Prowler  ProwlerConfig  `mapstructure:"prowler"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

// Production reports whether the server runs in release mode; the session
// cookie is marked Secure only then, so non-TLS deployments keep working.
func (c *Config) Production() bool {
	return c.Server.Mode == "release"
}

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working
// directory. The database path and session secret are required; a missing
// value is a startup error, not a per-request failure.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	// environment overrides, e.g. PD_SESSION_SECRET=...
	v.SetEnvPrefix("PD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "data/prowlerdash.db")
	v.SetDefault("session.cookie_name", "pd_session")
	v.SetDefault("session.ttl_days", 7)
	v.SetDefault("prowler.timeout_seconds", 10)

	if err := v.ReadInConfig(); err != nil {
		// the file is optional when everything comes from the environment
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Unmarshal does not consult the environment for keys absent from the
	// file; re-read the secret through Get, which does.
	if c.Session.Secret == "" {
		c.Session.Secret = v.GetString("session.secret")
	}

	if c.Session.Secret == "" {
		return nil, errors.New("session.secret is required (PD_SESSION_SECRET)")
	}
	if c.Database.Path == "" {
		return nil, errors.New("database.path is required (PD_DATABASE_PATH)")
	}

	return &c, nil
}
