// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token.
//
// Expiry is carried in Unix milliseconds (not the RFC 7519 seconds form) to
// stay compatible with tokens issued by earlier deployments. Claims
// implements [jwt.Claims] so the standard parser validates expiry for us.
type Claims struct {
	// Subject is the deck identity (UUID) the token grants access to.
	Subject string `json:"sub"`

	// Username is the lowercased account name.
	Username string `json:"username"`

	// ExpiresAt is the absolute expiry in Unix milliseconds.
	ExpiresAt int64 `json:"exp"`
}

// Expiry returns ExpiresAt as a time.Time.
func (c Claims) Expiry() time.Time {
	return time.UnixMilli(c.ExpiresAt)
}

// GetExpirationTime implements [jwt.Claims].
func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return &jwt.NumericDate{Time: c.Expiry()}, nil
}

// GetIssuedAt implements [jwt.Claims].
func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) { return nil, nil }

// GetNotBefore implements [jwt.Claims].
func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

// GetIssuer implements [jwt.Claims].
func (c Claims) GetIssuer() (string, error) { return "", nil }

// GetSubject implements [jwt.Claims].
func (c Claims) GetSubject() (string, error) { return c.Subject, nil }

// GetAudience implements [jwt.Claims].
func (c Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

// Token is an issued session token together with the claims it carries.
type Token struct {
	Claims

	// SignedString is the compact header.payload.signature form sent to clients.
	SignedString string `json:"-"`
}

// String returns the compact serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t Token) String() string {
	return t.SignedString
}
