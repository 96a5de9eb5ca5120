// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "github.com/MKhiriev/decklister/internal/utils"

// passwordHasher derives PBKDF2-HMAC-SHA256 hashes with a fixed iteration
// count.
type passwordHasher struct {
	iterations int
}

// NewPasswordHasher returns a PasswordHasher using the given PBKDF2
// iteration count. Changing the count invalidates existing hashes.
func NewPasswordHasher(iterations int) PasswordHasher {
	return &passwordHasher{iterations: iterations}
}

func (h *passwordHasher) Hash(password, salt string) string {
	return utils.HashPassword(password, salt, h.iterations)
}

func (h *passwordHasher) Verify(password, salt, storedHash string) bool {
	return utils.EqualHashes(h.Hash(password, salt), storedHash)
}
