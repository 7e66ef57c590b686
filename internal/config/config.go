// Package config loads service configuration.
//
// Priority (highest to lowest):
//  1. Environment variables with INVENTRACK_ prefix (e.g. INVENTRACK_DATABASE_URL)
//  2. .env file in the working directory
//  3. config.toml
//  4. Built-in defaults
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Auth     AuthConfig
	Mail     MailConfig
	Mpesa    MpesaConfig
	HTTP     HTTPConfig
	Log      LogConfig
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// IsProduction reports whether the service runs in production.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production"
}

// DatabaseConfig holds Postgres settings. An empty URL selects the in-memory store.
type DatabaseConfig struct {
	URL              string
	MaxConns         int32
	MinConns         int32
	StatementTimeout time.Duration
	AutoMigrate      bool
}

// RedisConfig holds Redis settings. An empty Addr selects in-memory fallbacks.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// JWTConfig holds token settings.
type JWTConfig struct {
	Secret             string
	Issuer             string
	AccessTokenTTL     time.Duration
	RefreshTokenExpiry time.Duration
}

// AuthConfig holds account policy settings.
type AuthConfig struct {
	AllowAdminSignup  bool
	PasswordMinLength int
}

// MailConfig holds SMTP settings. An empty Host disables delivery.
type MailConfig struct {
	Host       string
	Port       int
	Username   string
	Password   string
	From       string
	RequireTLS bool
}

// MpesaConfig holds payment callback settings.
type MpesaConfig struct {
	PhoneRegion string
	DedupeTTL   time.Duration
}

// HTTPConfig holds server settings.
type HTTPConfig struct {
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	IdleTimeout        time.Duration
	ShutdownTimeout    time.Duration
	IdempotencyEnabled bool
	IdempotencyTTL     time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// Load reads configuration from config.toml, .env and the environment.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/inventrack")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	v.SetEnvPrefix("INVENTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Database: DatabaseConfig{
			URL:              v.GetString("database.url"),
			MaxConns:         v.GetInt32("database.max_conns"),
			MinConns:         v.GetInt32("database.min_conns"),
			StatementTimeout: v.GetDuration("database.statement_timeout"),
			AutoMigrate:      v.GetBool("database.auto_migrate"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:             v.GetString("jwt.secret"),
			Issuer:             v.GetString("jwt.issuer"),
			AccessTokenTTL:     v.GetDuration("jwt.access_token_ttl"),
			RefreshTokenExpiry: v.GetDuration("jwt.refresh_token_expiry"),
		},
		Auth: AuthConfig{
			AllowAdminSignup:  v.GetBool("auth.allow_admin_signup"),
			PasswordMinLength: v.GetInt("auth.password_min_length"),
		},
		Mail: MailConfig{
			Host:       v.GetString("mail.host"),
			Port:       v.GetInt("mail.port"),
			Username:   v.GetString("mail.username"),
			Password:   v.GetString("mail.password"),
			From:       v.GetString("mail.from"),
			RequireTLS: v.GetBool("mail.require_tls"),
		},
		Mpesa: MpesaConfig{
			PhoneRegion: v.GetString("mpesa.phone_region"),
			DedupeTTL:   v.GetDuration("mpesa.dedupe_ttl"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:        v.GetDuration("http.read_timeout"),
			WriteTimeout:       v.GetDuration("http.write_timeout"),
			IdleTimeout:        v.GetDuration("http.idle_timeout"),
			ShutdownTimeout:    v.GetDuration("http.shutdown_timeout"),
			IdempotencyEnabled: v.GetBool("http.idempotency_enabled"),
			IdempotencyTTL:     v.GetDuration("http.idempotency_ttl"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "inventrack"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}

	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 20
	}
	if cfg.Database.MinConns <= 0 {
		cfg.Database.MinConns = 2
	}
	if cfg.Database.StatementTimeout <= 0 {
		cfg.Database.StatementTimeout = 30 * time.Second
	}

	if cfg.JWT.Secret == "" && !cfg.App.IsProduction() {
		cfg.JWT.Secret = "dev-secret-change-me-dev-secret-change-me"
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "inventrack"
	}
	if cfg.JWT.AccessTokenTTL <= 0 {
		cfg.JWT.AccessTokenTTL = 15 * time.Minute
	}
	if cfg.JWT.RefreshTokenExpiry <= 0 {
		cfg.JWT.RefreshTokenExpiry = 7 * 24 * time.Hour
	}

	if cfg.Auth.PasswordMinLength <= 0 {
		cfg.Auth.PasswordMinLength = 8
	}

	if cfg.Mail.Port == 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = "no-reply@inventrack.local"
	}

	if cfg.Mpesa.PhoneRegion == "" {
		cfg.Mpesa.PhoneRegion = "KE"
	}
	if cfg.Mpesa.DedupeTTL <= 0 {
		cfg.Mpesa.DedupeTTL = 72 * time.Hour
	}

	if cfg.HTTP.ReadTimeout <= 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout <= 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdleTimeout <= 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout <= 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if cfg.HTTP.IdempotencyTTL <= 0 {
		cfg.HTTP.IdempotencyTTL = 24 * time.Hour
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func (c *Config) validate() error {
	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) cannot exceed database.max_conns (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("mail.port must be between 1 and 65535, got %d", c.Mail.Port)
	}
	if len(c.Mpesa.PhoneRegion) != 2 {
		return fmt.Errorf("mpesa.phone_region must be a two-letter region code, got %q", c.Mpesa.PhoneRegion)
	}

	if c.App.IsProduction() {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		if len(c.JWT.Secret) < 32 {
			return fmt.Errorf("jwt.secret must be at least 32 characters in production")
		}
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required in production")
		}
	}
	return nil
}
