// Copyright (c) 2026 Kertas. All rights reserved.
// Author: ad.kurnia.ws@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Kertas API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// BaseURL is the externally visible origin, used to build emailed links.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing secrets. The access secret is shared across all roles;
	// refresh secrets are partitioned per privilege tier. A missing refresh
	// secret falls back to a fixed insecure default (logged as a hardening
	// warning at startup).
	AccessTokenSecret       string `env:"ACCESS_TOKEN_SECRET,required"`
	SuperAdminRefreshSecret string `env:"SUPER_ADMIN_REFRESH_SECRET"`
	AdminRefreshSecret      string `env:"ADMIN_REFRESH_SECRET"`
	UserRefreshSecret       string `env:"USER_REFRESH_SECRET"`

	// FieldEncryptionKey protects encrypted-at-rest account columns
	// (phone, points). Must be 16, 24, or 32 bytes.
	FieldEncryptionKey string `env:"FIELD_ENCRYPTION_KEY,required"`

	// Outbound email. Each entry is "host:port:username:password"; delivery
	// rotates round-robin across entries.
	SMTPAccounts []string `env:"SMTP_ACCOUNTS" envSeparator:";"`
	MailFrom     string   `env:"MAIL_FROM" envDefault:"no-reply@kertas.app"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedExtraOrigins returns the additional CORS origins configured via
// EXTRA_ORIGINS (comma-separated). Empty entries are dropped.
func (c *Config) AllowedExtraOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}

	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
