// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordHashLength is the length in bytes of a derived password hash.
const PasswordHashLength = 32

// HashPassword derives a PBKDF2-HMAC-SHA256 key of [PasswordHashLength]
// bytes from password and salt and returns it in standard base64.
//
// Parameters:
//
//	password   - plain-text password
//	salt       - per-account salt string
//	iterations - PBKDF2 iteration count
//
// Example usage:
//
//	hash := utils.HashPassword("hunter2", salt, 100000)
func HashPassword(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, PasswordHashLength, sha256.New)
	return base64.StdEncoding.EncodeToString(key)
}

// EqualHashes compares two encoded hashes in constant time.
func EqualHashes(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
