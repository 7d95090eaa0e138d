package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	OIDC struct {
		Issuer       string
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}
	Log struct {
		Level       string
		Development bool
	}
	// Demo is the account signed in by /auth/login when OIDC is not configured.
	Demo struct {
		Name  string
		Email string
	}
	SessionLifetime time.Duration
	InsecureCookies bool
}

// OIDCEnabled reports whether an identity provider is configured.
func (c *Config) OIDCEnabled() bool {
	return c.OIDC.Issuer != ""
}

// Load reads config from environment (LMS_ prefix) and optional lms-portal.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("lms-portal")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read lms-portal.yaml: %w", err)
		}
	}

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:lms-portal.db?_pragma=busy_timeout(5000)")
	v.SetDefault("session.lifetime", "720h")
	v.SetDefault("log.level", "info")
	v.SetDefault("demo.name", "John Doe")
	v.SetDefault("demo.email", "john.doe@example.com")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.OIDC.Issuer = v.GetString("oidc.issuer")
	cfg.OIDC.ClientID = v.GetString("oidc.client_id")
	cfg.OIDC.ClientSecret = v.GetString("oidc.client_secret")
	cfg.OIDC.RedirectURL = v.GetString("oidc.redirect_url")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Development = v.GetBool("log.development")
	cfg.Demo.Name = v.GetString("demo.name")
	cfg.Demo.Email = v.GetString("demo.email")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid LMS_SESSION_LIFETIME: %w", err)
	}
	cfg.SessionLifetime = lifetime

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return fmt.Errorf("LMS_DB_DRIVER %q unsupported (sqlite3, mysql, postgres)", c.DB.Driver)
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("LMS_DB_DSN is required")
	}
	// OIDC is all-or-nothing.
	if c.OIDCEnabled() {
		if c.OIDC.ClientID == "" {
			return fmt.Errorf("LMS_OIDC_CLIENT_ID is required when LMS_OIDC_ISSUER is set")
		}
		if c.OIDC.ClientSecret == "" {
			return fmt.Errorf("LMS_OIDC_CLIENT_SECRET is required when LMS_OIDC_ISSUER is set")
		}
		if c.OIDC.RedirectURL == "" {
			return fmt.Errorf("LMS_OIDC_REDIRECT_URL is required when LMS_OIDC_ISSUER is set")
		}
	}
	return nil
}
