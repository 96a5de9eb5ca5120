// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// MinPasswordIterations is the lowest accepted PBKDF2 iteration count.
const MinPasswordIterations = 100000

// validate checks that the final merged [StructuredConfig] can be used to
// start the server.
func (cfg *StructuredConfig) validate() error {
	if err := cfg.App.validate(); err != nil {
		return err
	}
	if err := cfg.Storage.validate(); err != nil {
		return err
	}
	return cfg.Server.validate()
}

func (a App) validate() error {
	switch a.Profile {
	case ProfileDevelopment, ProfileProduction:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProfile, a.Profile)
	}

	if a.IsProduction() && a.TokenSignKey == "" {
		return ErrMissingTokenSignKey
	}

	if a.PasswordIterations < MinPasswordIterations {
		return fmt.Errorf("%w: password iterations must be at least %d", ErrInvalidAppConfigs, MinPasswordIterations)
	}
	if a.TokenDuration <= 0 || a.NonceTTL <= 0 {
		return fmt.Errorf("%w: token duration and nonce ttl must be positive", ErrInvalidAppConfigs)
	}
	if a.MaxDeckBytes <= 0 {
		return fmt.Errorf("%w: max deck bytes must be positive", ErrInvalidAppConfigs)
	}
	if a.LoginMaxFailures < 0 || (a.LoginMaxFailures > 0 && a.LoginFailureWindow <= 0) {
		return fmt.Errorf("%w: invalid login throttle settings", ErrInvalidAppConfigs)
	}

	return nil
}

func (s Storage) validate() error {
	switch s.Driver {
	case DriverMemory:
	case DriverBadger:
		if s.Badger.Dir == "" {
			return fmt.Errorf("%w: badger dir is required", ErrInvalidStorageConfigs)
		}
	case DriverPostgres, DriverSQLite:
		if s.DB.DSN == "" {
			return fmt.Errorf("%w: database uri is required for %s", ErrInvalidStorageConfigs, s.Driver)
		}
	case DriverS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("%w: s3 bucket is required", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorageDriver, s.Driver)
	}

	return nil
}

func (s Server) validate() error {
	if s.HTTPAddress == "" {
		return fmt.Errorf("%w: address is required", ErrInvalidServerConfigs)
	}
	if s.AuthRateLimit < 0 || s.AuthRateBurst < 0 {
		return fmt.Errorf("%w: auth rate limit must not be negative", ErrInvalidServerConfigs)
	}
	return nil
}
