// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "errors"

// Validation errors returned by [StructuredConfig.validate].
var (
	// ErrUnknownProfile indicates an App.Profile other than development or production.
	ErrUnknownProfile = errors.New("unknown profile")
	// ErrMissingTokenSignKey indicates a production profile without a token key.
	ErrMissingTokenSignKey = errors.New("token sign key is required in production")
	// ErrInvalidAppConfigs indicates out-of-range application settings.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrUnknownStorageDriver indicates an unsupported Storage.Driver.
	ErrUnknownStorageDriver = errors.New("unknown storage driver")
	// ErrInvalidStorageConfigs indicates missing driver-specific settings.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid listener or HTTP policy settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
