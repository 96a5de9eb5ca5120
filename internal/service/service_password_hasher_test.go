// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHasher_VerifyRoundTrip(t *testing.T) {
	h := NewPasswordHasher(1000)

	for _, tc := range []struct{ password, salt string }{
		{"hunter2", "salt-1"},
		{"", "salt-2"},
		{"pässwörd with spaces", "3f1c2b0e-8a51-4f7c-9e1d-6a2f0b9c7d11"},
	} {
		hash := h.Hash(tc.password, tc.salt)
		assert.True(t, h.Verify(tc.password, tc.salt, hash), "password %q", tc.password)
	}
}

func TestPasswordHasher_VerifyRejects(t *testing.T) {
	h := NewPasswordHasher(1000)
	hash := h.Hash("hunter2", "salt")

	assert.False(t, h.Verify("hunter3", "salt", hash), "wrong password")
	assert.False(t, h.Verify("hunter2", "other-salt", hash), "wrong salt")
	assert.False(t, h.Verify("hunter2", "salt", hash[:len(hash)-1]), "truncated hash")
	assert.False(t, h.Verify("hunter2", "salt", ""), "empty hash")
}

func TestPasswordHasher_IterationsAffectHash(t *testing.T) {
	assert.NotEqual(t, NewPasswordHasher(1000).Hash("pw", "salt"), NewPasswordHasher(2000).Hash("pw", "salt"))
}
