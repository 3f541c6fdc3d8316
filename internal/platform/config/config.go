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

Two schemas live here: [Config] for the API server and [ClientConfig] for the
quinca terminal client. Both are read-only once loaded and are passed to
constructors explicitly.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Identity sources accepted by IDENTITY_SOURCE.
const (
	IdentitySourcePostgres  = "postgres"
	IdentitySourceDirectory = "directory"
)

// # Configuration Schema

// Config holds all runtime configuration for the Quinca API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis): refresh sessions and pending 2FA challenges.
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for access token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// IdentitySource selects where accounts are looked up: "postgres" or the
	// built-in "directory" of demo accounts.
	IdentitySource string `env:"IDENTITY_SOURCE" envDefault:"postgres"`

	// TwoFactorTTL bounds how long a pending two-factor challenge stays valid.
	TwoFactorTTL time.Duration `env:"TWO_FACTOR_TTL" envDefault:"5m"`

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

	if cfg.IdentitySource != IdentitySourcePostgres && cfg.IdentitySource != IdentitySourceDirectory {
		return nil, fmt.Errorf("config: unsupported IDENTITY_SOURCE %q", cfg.IdentitySource)
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

// # Terminal Client

// ClientConfig holds the settings of the quinca terminal client.
type ClientConfig struct {
	// APIURL is the base URL of the Quinca API, without the /api/v1 suffix.
	APIURL string `env:"QUINCA_API_URL" envDefault:"http://localhost:8080"`

	// StateFile is where the session keys are persisted between invocations.
	// Empty means $HOME/.quinca/session.json.
	StateFile string `env:"QUINCA_STATE_FILE"`

	// Timeout applies to every outbound request.
	Timeout time.Duration `env:"QUINCA_TIMEOUT" envDefault:"15s"`

	// Offline switches the client to the built-in identity directory instead
	// of calling the API.
	Offline bool `env:"QUINCA_OFFLINE" envDefault:"false"`

	// RedisURL moves the session keys from the state file to Redis, shared by
	// every process of the same terminal.
	RedisURL string `env:"QUINCA_REDIS_URL"`

	// TerminalID namespaces the Redis session keys.
	TerminalID string `env:"QUINCA_TERMINAL_ID" envDefault:"till-1"`
}

// LoadClient parses the client environment into a [ClientConfig].
func LoadClient() (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse client environment: %w", err)
	}

	if cfg.StateFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("config: resolve home directory: %w", err)
		}
		cfg.StateFile = filepath.Join(home, ".quinca", "session.json")
	}

	return cfg, nil
}
