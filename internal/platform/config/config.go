// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Supported document store drivers.
const (
	DocumentStorePostgres = "postgres"
	DocumentStoreMemory   = "memory"
)

// # Configuration Schema

// Config holds all runtime configuration for the portal server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// DocumentStore selects the collection backend ("postgres" or "memory").
	DocumentStore string `env:"DOCUMENT_STORE" envDefault:"postgres"`

	// Relational Database (PostgreSQL). Required for the postgres document store.
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value store (Redis) for password reset tokens. Optional.
	RedisURL string `env:"REDIS_URL"`

	// RS256 key pair for bearer access tokens. Optional; without it only
	// cookie sessions are accepted.
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH"`

	// Object Storage (S3-compatible) for card files. Optional.
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION"          envDefault:"us-east-1"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3UsePathStyle  bool   `env:"S3_USE_PATH_STYLE"  envDefault:"false"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`

	// Cross-Origin Resource Sharing, comma separated origins.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`

	// CookieSecure marks session cookies as Secure.
	CookieSecure bool `env:"COOKIE_SECURE" envDefault:"false"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks cross-field requirements the struct tags cannot express.
func (c *Config) Validate() error {
	switch c.DocumentStore {
	case DocumentStorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required when DOCUMENT_STORE=postgres")
		}
	case DocumentStoreMemory:
	default:
		return fmt.Errorf("config: unknown DOCUMENT_STORE %q", c.DocumentStore)
	}

	if (c.JWTPrivKeyPath == "") != (c.JWTPubKeyPath == "") {
		return errors.New("config: JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together")
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the parsed EXTRA_ORIGINS list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// TokensEnabled reports whether a JWT key pair is configured.
func (c *Config) TokensEnabled() bool {
	return c.JWTPrivKeyPath != "" && c.JWTPubKeyPath != ""
}

// ObjectStoreEnabled reports whether card file storage is configured.
func (c *Config) ObjectStoreEnabled() bool {
	return c.S3Bucket != ""
}
