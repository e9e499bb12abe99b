// Package config handles loading and validation of application configuration
// from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/TourHive/booking-flow-backend/logger"
	"github.com/spf13/viper"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// BookingAPIConfig holds connection details for the upstream booking platform
// (catalog field schemas, booking creation, booking-product save).
type BookingAPIConfig struct {
	BaseURL string `mapstructure:"BASE_URL" yaml:"base_url"`
	APIKey  string `mapstructure:"API_KEY" yaml:"api_key"`
	// TimeoutSeconds is the HTTP client timeout for booking and save calls.
	// A timeout is treated the same as any other transport failure.
	TimeoutSeconds int `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
	// SchemaCacheTTLSeconds controls how long QueryBookingField responses
	// stay cached in Redis.
	SchemaCacheTTLSeconds int `mapstructure:"SCHEMA_CACHE_TTL_SECONDS" yaml:"schema_cache_ttl_seconds"`
}

// Timeout returns the booking API client timeout as a duration.
func (c *BookingAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SchemaCacheTTL returns the schema cache TTL as a duration.
func (c *BookingAPIConfig) SchemaCacheTTL() time.Duration {
	return time.Duration(c.SchemaCacheTTLSeconds) * time.Second
}

// SessionConfig holds configuration for in-memory booking sessions.
type SessionConfig struct {
	// IdleTTLMinutes is how long an untouched session survives before the sweeper drops it.
	IdleTTLMinutes int `mapstructure:"IDLE_TTL_MINUTES" yaml:"idle_ttl_minutes"`
	// SweepIntervalMinutes is how often the sweeper runs.
	SweepIntervalMinutes int `mapstructure:"SWEEP_INTERVAL_MINUTES" yaml:"sweep_interval_minutes"`
}

// IdleTTL returns the session idle TTL as a duration.
func (c *SessionConfig) IdleTTL() time.Duration {
	return time.Duration(c.IdleTTLMinutes) * time.Minute
}

// SweepInterval returns the session sweep interval as a duration.
func (c *SessionConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// Config aggregates all application configuration sections.
type Config struct {
	Server     ServerConfig     `mapstructure:"SERVER" yaml:"server"`
	Redis      RedisConfig      `mapstructure:"REDIS" yaml:"redis"`
	BookingAPI BookingAPIConfig `mapstructure:"BOOKING_API" yaml:"booking_api"`
	Session    SessionConfig    `mapstructure:"SESSION" yaml:"session"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables using Viper,
// sets default values, unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 3)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("BOOKING_API.BASE_URL", "http://localhost:9090")
	v.SetDefault("BOOKING_API.API_KEY", "")
	v.SetDefault("BOOKING_API.TIMEOUT_SECONDS", 30)
	v.SetDefault("BOOKING_API.SCHEMA_CACHE_TTL_SECONDS", 600)
	v.SetDefault("SESSION.IDLE_TTL_MINUTES", 45)
	v.SetDefault("SESSION.SWEEP_INTERVAL_MINUTES", 5)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
		{"SERVER.PORT", "PORT"},
		{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
		{"SERVER.VERSION", "VERSION"},
		{"REDIS.ADDRESS", "REDIS_ADDRESS"},
		{"REDIS.PASSWORD", "REDIS_PASSWORD"},
		{"REDIS.DB", "REDIS_DB"},
		{"REDIS.USE_TLS", "REDIS_USE_TLS"},
		{"BOOKING_API.BASE_URL", "BOOKING_API_BASE_URL"},
		{"BOOKING_API.API_KEY", "BOOKING_API_KEY"},
		{"BOOKING_API.TIMEOUT_SECONDS", "BOOKING_API_TIMEOUT_SECONDS"},
		{"BOOKING_API.SCHEMA_CACHE_TTL_SECONDS", "BOOKING_API_SCHEMA_CACHE_TTL_SECONDS"},
		{"SESSION.IDLE_TTL_MINUTES", "SESSION_IDLE_TTL_MINUTES"},
		{"SESSION.SWEEP_INTERVAL_MINUTES", "SESSION_SWEEP_INTERVAL_MINUTES"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"booking_api_base_url", v.GetString("BOOKING_API.BASE_URL"),
		"schema_cache_ttl_seconds", v.GetInt("BOOKING_API.SCHEMA_CACHE_TTL_SECONDS"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if cfg.BookingAPI.BaseURL == "" {
		return fmt.Errorf("booking API base URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.BookingAPI.BaseURL); err != nil {
		return fmt.Errorf("invalid booking API base URL '%s': %w", cfg.BookingAPI.BaseURL, err)
	}
	if cfg.BookingAPI.TimeoutSeconds <= 0 {
		return fmt.Errorf("booking API timeout must be positive")
	}

	if cfg.IsProduction() {
		if cfg.BookingAPI.APIKey == "" {
			return fmt.Errorf("booking API key is required in production")
		}
		if strings.Contains(cfg.BookingAPI.BaseURL, "localhost") {
			return fmt.Errorf("booking API base URL must not point at localhost in production")
		}
	}

	// Validate AllowedOrigins format if not wildcard
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if cfg.Session.IdleTTLMinutes <= 0 {
		return fmt.Errorf("session idle TTL must be positive")
	}
	if cfg.Session.SweepIntervalMinutes <= 0 {
		return fmt.Errorf("session sweep interval must be positive")
	}

	return nil
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" || strings.HasPrefix(o, "*.") {
			return true
		}
	}
	return false
}
