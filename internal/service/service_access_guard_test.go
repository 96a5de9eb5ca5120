// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/decklister/internal/mock"
	"github.com/MKhiriev/decklister/internal/store"
)

func TestAccessGuard_Authorize(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, newMemoryKV(t))

	owner := env.register(t, "alice", "pw", "uuid-1")
	other := env.register(t, "bob", "pw", "uuid-2")

	tests := []struct {
		name    string
		uuid    string
		bearer  string
		wantErr error
	}{
		{name: "unprotected without token", uuid: "uuid-free"},
		{name: "unprotected with foreign token", uuid: "uuid-free", bearer: other.SignedString},
		{name: "protected without token", uuid: "uuid-1", wantErr: ErrAuthRequired},
		{name: "protected with garbage token", uuid: "uuid-1", bearer: "garbage", wantErr: ErrAuthRequired},
		{name: "protected with other subject", uuid: "uuid-1", bearer: other.SignedString, wantErr: ErrAuthRequired},
		{name: "protected with owner token", uuid: "uuid-1", bearer: owner.SignedString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.guard.Authorize(ctx, tt.uuid, tt.bearer)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantErr, err)
		})
	}
}

func TestAccessGuard_Authorize_IndexFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := mock.NewMockKV(ctrl)
	env := newTestEnv(t, newMemoryKV(t))
	guard := NewAccessGuard(NewAccountIndex(kv), env.tokens)

	kv.EXPECT().Get(gomock.Any(), store.UUIDAccountKey("uuid-1")).Return("", errors.New("unavailable"))

	err := guard.Authorize(context.Background(), "uuid-1", "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAuthRequired)
}

func TestAccountIndex_IsProtected_PointerToOtherIdentity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, newMemoryKV(t))
	env.register(t, "alice", "pw", "uuid-1")

	require.NoError(t, env.kv.Put(ctx, store.UUIDAccountKey("uuid-9"), "alice"))

	protected, err := env.index.IsProtected(ctx, "uuid-9")
	require.NoError(t, err)
	assert.False(t, protected)
}
