// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Account is the stored credential record of a registered user.
//
// It is persisted as JSON under the "account:<lowercased username>" key. The
// JSON field names are part of the storage contract and must stay stable so
// records written by earlier deployments keep decoding.
type Account struct {
	// UUID is the deck identity the account protects.
	UUID string `json:"uuid"`

	// PasswordHash is the base64-encoded PBKDF2 output for the password and Salt.
	PasswordHash string `json:"passwordHash"`

	// Salt is the per-account random salt fed into the key derivation.
	Salt string `json:"salt"`

	// CreatedAt is the creation time in Unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
}
