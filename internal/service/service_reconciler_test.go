// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/decklister/internal/mock"
	"github.com/MKhiriev/decklister/internal/store"
	"github.com/MKhiriev/decklister/models"
)

func putAccount(t *testing.T, kv store.KV, username, uuid string) {
	t.Helper()
	raw, err := json.Marshal(models.Account{UUID: uuid, PasswordHash: "h", Salt: "s", CreatedAt: 1})
	require.NoError(t, err)
	require.NoError(t, kv.Put(context.Background(), store.AccountKey(username), string(raw)))
}

func TestReconciler_Consistent(t *testing.T) {
	env := newTestEnv(t, newMemoryKV(t))
	env.register(t, "alice", "pw", "uuid-1")
	env.register(t, "bob", "pw", "uuid-2")

	report, err := NewReconciler(env.kv).Reconcile(context.Background(), true)

	require.NoError(t, err)
	assert.True(t, report.Consistent())
	assert.False(t, report.Fixed, "nothing to fix")
}

func TestReconciler_ReportsAndFixes(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV(t)

	// healthy
	putAccount(t, kv, "alice", "uuid-1")
	require.NoError(t, kv.Put(ctx, store.UUIDAccountKey("uuid-1"), "alice"))
	// pointer to a missing account
	require.NoError(t, kv.Put(ctx, store.UUIDAccountKey("uuid-2"), "ghost"))
	// account without pointer
	putAccount(t, kv, "carol", "uuid-3")
	// pointer to an account of another identity, whose own pointer is missing
	putAccount(t, kv, "dave", "uuid-4")
	require.NoError(t, kv.Put(ctx, store.UUIDAccountKey("uuid-5"), "dave"))

	rec := NewReconciler(kv)

	report, err := rec.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"uuid-2", "uuid-5"}, report.DanglingPointers)
	assert.Equal(t, []string{"carol", "dave"}, report.MissingPointers)
	assert.False(t, report.Fixed)

	_, err = kv.Get(ctx, store.UUIDAccountKey("uuid-2"))
	require.NoError(t, err, "report-only run changes nothing")

	report, err = rec.Reconcile(ctx, true)
	require.NoError(t, err)
	assert.True(t, report.Fixed)

	report, err = rec.Reconcile(ctx, false)
	require.NoError(t, err)
	assert.True(t, report.Consistent())

	index := NewAccountIndex(kv)
	for uuid, want := range map[string]bool{"uuid-1": true, "uuid-2": false, "uuid-3": true, "uuid-4": true, "uuid-5": false} {
		protected, err := index.IsProtected(ctx, uuid)
		require.NoError(t, err)
		assert.Equal(t, want, protected, uuid)
	}
}

func TestReconciler_RepointsDanglingPointerOfItsOwnAccount(t *testing.T) {
	ctx := context.Background()
	kv := newMemoryKV(t)

	putAccount(t, kv, "alice", "uuid-1")
	require.NoError(t, kv.Put(ctx, store.UUIDAccountKey("uuid-1"), "ghost"))

	report, err := NewReconciler(kv).Reconcile(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"uuid-1"}, report.DanglingPointers)
	assert.Equal(t, []string{"alice"}, report.MissingPointers)

	pointer, err := kv.Get(ctx, store.UUIDAccountKey("uuid-1"))
	require.NoError(t, err)
	assert.Equal(t, "alice", pointer)
}

func TestReconciler_ListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := mock.NewMockKV(ctrl)
	kv.EXPECT().List(gomock.Any(), store.UUIDAccountPrefix).Return(nil, errors.New("denied"))

	_, err := NewReconciler(kv).Reconcile(context.Background(), false)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}
