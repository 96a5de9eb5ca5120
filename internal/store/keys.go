// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import "strings"

// Key prefixes of the shared KV namespace.
const (
	AccountPrefix     = "account:"
	UUIDAccountPrefix = "uuid-account:"
	NoncePrefix       = "nonce:"
	DecksPrefix       = "user:"
	SharePrefix       = "share:"
)

// AccountKey is the key of the account record for username.
// Usernames are case-insensitive, so the key uses the lowercased form.
func AccountKey(username string) string {
	return AccountPrefix + strings.ToLower(username)
}

// UUIDAccountKey is the reverse-index key mapping a deck identity to the
// username protecting it.
func UUIDAccountKey(uuid string) string {
	return UUIDAccountPrefix + uuid
}

// NonceKey is the key of the pending registration nonce for uuid.
func NonceKey(uuid string) string {
	return NoncePrefix + uuid
}

// DecksKey is the canonical key of the deck collection of uuid.
func DecksKey(uuid string) string {
	return DecksPrefix + uuid
}

// LegacyDecksKey is the key used for deck collections written before the
// "user:" namespace existed. It is the bare identity.
func LegacyDecksKey(uuid string) string {
	return uuid
}

// ShareKey is the key of the share record id.
func ShareKey(id string) string {
	return SharePrefix + id
}
