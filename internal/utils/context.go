// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package utils provides general-purpose helper utilities
// used across different parts of the application.
// Includes tools for working with context, type-safe keys, password hashing,
// HTTP response writing, HTTP client initialization, JWT token generation
// and validation, and other common operations.
package utils

import (
	"context"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
// Implements the fmt.Stringer interface.
func (c contextKey) String() string {
	return string(c)
}

// BearerTokenCtxKey is the key used to store the raw bearer token taken from
// the Authorization header of the current request.
//
// Example of writing a value to the context:
//
//	ctx := context.WithValue(ctx, utils.BearerTokenCtxKey, "eyJhbGciOi...")
var BearerTokenCtxKey = contextKey("bearerToken")

// GetBearerTokenFromContext retrieves the bearer token from the context.
//
// Returns the token and an ok flag:
//   - ok == true: a non-empty token is present
//   - ok == false: value is missing, empty or has an unexpected type
func GetBearerTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(BearerTokenCtxKey).(string)
	return token, ok && token != ""
}

// ClientIPCtxKey is the key under which the HTTP layer stores the address of
// the client that sent the current request.
var ClientIPCtxKey = contextKey("clientIP")

// GetClientIPFromContext returns the client address stored under
// [ClientIPCtxKey], if any.
func GetClientIPFromContext(ctx context.Context) (string, bool) {
	ip, ok := ctx.Value(ClientIPCtxKey).(string)
	return ip, ok && ip != ""
}
