package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret               string `yaml:"jwt_secret"`
		TokenExpiryHours        int64  `yaml:"token_expiry_hours"`
		BlacklistRetentionHours int64  `yaml:"blacklist_retention_hours"`
		SweepIntervalMinutes    int64  `yaml:"sweep_interval_minutes"`
	} `yaml:"auth"`
	CORS struct {
		Origin string `yaml:"origin"`
	} `yaml:"cors"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
}

// LoadConfig reads configuration from the specified YAML file.
// Secrets can be overridden via environment variables (JWT_SECRET,
// DATABASE_URL) so the YAML file never has to carry them.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.Auth.TokenExpiryHours == 0 {
		c.Auth.TokenExpiryHours = 24
	}
	if c.Auth.BlacklistRetentionHours == 0 {
		c.Auth.BlacklistRetentionHours = 24
	}
	if c.Auth.SweepIntervalMinutes == 0 {
		c.Auth.SweepIntervalMinutes = 60
	}
	if c.Server.Port == "" {
		c.Server.Port = ":8080"
	}
}

// Validate checks invariants that must hold before the server starts.
// The blacklist retention must cover the longest token lifetime,
// otherwise a revoked token could outlive its blacklist entry and be
// accepted again.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required (config file or JWT_SECRET)")
	}
	if c.Database.URL == "" {
		return fmt.Errorf("database.url is required (config file or DATABASE_URL)")
	}
	if c.Auth.BlacklistRetentionHours < c.Auth.TokenExpiryHours {
		return fmt.Errorf("auth.blacklist_retention_hours (%d) must be at least auth.token_expiry_hours (%d)",
			c.Auth.BlacklistRetentionHours, c.Auth.TokenExpiryHours)
	}
	return nil
}

func (c *Config) TokenExpiry() time.Duration {
	return time.Duration(c.Auth.TokenExpiryHours) * time.Hour
}

func (c *Config) BlacklistRetention() time.Duration {
	return time.Duration(c.Auth.BlacklistRetentionHours) * time.Hour
}

func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Auth.SweepIntervalMinutes) * time.Minute
}
