// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// Deployment profiles accepted in App.Profile.
const (
	ProfileDevelopment = "development"
	ProfileProduction  = "production"
)

// Storage drivers accepted in Storage.Driver.
const (
	DriverMemory   = "memory"
	DriverBadger   = "badger"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverS3       = "s3"
)

// StructuredConfig is the top-level configuration container for the
// decklister server. It is populated by merging values from environment
// variables (with defaults), command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//   - envDefault: value used when the variable is unset.
type StructuredConfig struct {
	// App holds token, password, nonce and deck limits.
	App App `envPrefix:"APP_"`

	// Storage selects and configures the key-value backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listener, timeout and HTTP policy settings.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Profile is either "development" or "production".
	// Env: APP_PROFILE
	Profile string `env:"PROFILE" envDefault:"development"`

	// TokenSignKey is the HS256 secret for session tokens. Required in
	// production; a random key is generated in development when empty.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenDuration is the session token lifetime.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"168h"`

	// PasswordIterations is the PBKDF2 iteration count (minimum 100000).
	// Env: APP_PASSWORD_ITERATIONS
	PasswordIterations int `env:"PASSWORD_ITERATIONS" envDefault:"100000"`

	// NonceTTL is the lifetime of a registration nonce.
	// Env: APP_NONCE_TTL
	NonceTTL time.Duration `env:"NONCE_TTL" envDefault:"300s"`

	// MaxDeckBytes is the largest accepted deck collection body.
	// Env: APP_MAX_DECK_BYTES
	MaxDeckBytes int64 `env:"MAX_DECK_BYTES" envDefault:"1000000"`

	// LoginMaxFailures is the number of failed logins per username tolerated
	// inside LoginFailureWindow. Zero disables the throttle.
	// Env: APP_LOGIN_MAX_FAILURES
	LoginMaxFailures int `env:"LOGIN_MAX_FAILURES" envDefault:"10"`

	// LoginFailureWindow is the fixed window of the login throttle.
	// Env: APP_LOGIN_FAILURE_WINDOW
	LoginFailureWindow time.Duration `env:"LOGIN_FAILURE_WINDOW" envDefault:"15m"`

	// Version is reported by GET /healthz.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// IsProduction reports whether the production profile is active.
func (a App) IsProduction() bool {
	return a.Profile == ProfileProduction
}

// Storage groups the configuration for all key-value backends.
type Storage struct {
	// Driver is one of memory, badger, postgres, sqlite or s3.
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER" envDefault:"memory"`

	// DB holds the SQL connection settings used by postgres and sqlite.
	DB DB `envPrefix:"DB_"`

	// Badger holds the embedded badger settings.
	Badger Badger `envPrefix:"BADGER_"`

	// S3 holds the object store settings.
	S3 S3 `envPrefix:"S3_"`

	// SweepInterval is how often expired keys are purged from backends
	// without native expiry. Zero disables the sweeper.
	// Env: STORAGE_SWEEP_INTERVAL
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"5m"`
}

// DB holds connection settings for the SQL backends.
type DB struct {
	// DSN is a PostgreSQL URL or a SQLite file path.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Badger holds settings for the embedded badger backend.
type Badger struct {
	// Dir is the badger data directory.
	// Env: STORAGE_BADGER_DIR
	Dir string `env:"DIR"`
}

// S3 holds settings for the S3-compatible object store backend.
type S3 struct {
	Bucket    string `env:"BUCKET"`
	Region    string `env:"REGION" envDefault:"us-east-1"`
	Endpoint  string `env:"ENDPOINT"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	// Prefix is prepended to every object key.
	Prefix string `env:"PREFIX"`
}

// Server holds network and HTTP policy settings for the inbound transport.
type Server struct {
	// HTTPAddress is the TCP address the HTTP server listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS" envDefault:"localhost:8080"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// StaticDir, when set, is served for unmatched non-API paths.
	// Env: SERVER_STATIC_DIR
	StaticDir string `env:"STATIC_DIR"`

	// AllowedOrigins is the CORS origin allow-list.
	// Env: SERVER_ALLOWED_ORIGINS (comma separated)
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// AuthRateLimit is the per-IP request budget per minute on /api/auth.
	// Zero disables the limiter.
	// Env: SERVER_AUTH_RATE_LIMIT
	AuthRateLimit int `env:"AUTH_RATE_LIMIT" envDefault:"20"`

	// AuthRateBurst is the token bucket burst of the auth limiter.
	// Env: SERVER_AUTH_RATE_BURST
	AuthRateBurst int `env:"AUTH_RATE_BURST" envDefault:"5"`
}

// GetStructuredConfig loads, merges, and validates the server configuration
// from all available sources in the following priority order (last source
// wins for non-zero fields):
//  1. Environment variables (with defaults)
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return getStructuredConfig(os.Args[1:])
}

// GetStructuredConfigFromArgs is GetStructuredConfig with explicit
// command-line arguments instead of os.Args.
func GetStructuredConfigFromArgs(args []string) (*StructuredConfig, error) {
	return getStructuredConfig(args)
}

func getStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
