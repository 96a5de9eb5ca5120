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

	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/mock"
	"github.com/MKhiriev/decklister/internal/store"
	"github.com/MKhiriev/decklister/models"
)

func TestShareRegistry_ResolvesLiveDeck(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, newMemoryKV(t))

	_, err := env.decks.Write(ctx, "uuid-1", []byte(`[{"id":"d","text":"Burn v1"},{"id":"e","text":"Other"}]`))
	require.NoError(t, err)

	shareID, err := env.shares.Create(ctx, models.ShareRequest{User: "uuid-1", DeckID: "d"}, "")
	require.NoError(t, err)
	require.NotEmpty(t, shareID)

	raw, err := env.kv.Get(ctx, store.ShareKey(shareID))
	require.NoError(t, err)
	assert.JSONEq(t, `{"user":"uuid-1","deckId":"d"}`, raw, "only the reference is stored")

	text, err := env.shares.Resolve(ctx, shareID)
	require.NoError(t, err)
	assert.Equal(t, "Burn v1", text)

	_, err = env.decks.Write(ctx, "uuid-1", []byte(`[{"id":"d","text":"Burn v2"},{"id":"e","text":"Other"}]`))
	require.NoError(t, err)

	text, err = env.shares.Resolve(ctx, shareID)
	require.NoError(t, err)
	assert.Equal(t, "Burn v2", text, "edits propagate to the share")

	_, err = env.decks.Write(ctx, "uuid-1", []byte(`[{"id":"e","text":"Other"}]`))
	require.NoError(t, err)

	_, err = env.shares.Resolve(ctx, shareID)
	assert.ErrorIs(t, err, ErrStaleReference, "deleted deck invalidates the share")
}

func TestShareRegistry_Create_ValidatesRequest(t *testing.T) {
	env := newTestEnv(t, newMemoryKV(t))

	for _, req := range []models.ShareRequest{{User: "uuid-1"}, {DeckID: "d"}, {}} {
		_, err := env.shares.Create(context.Background(), req, "")
		assert.ErrorIs(t, err, ErrMissingFields)
	}
}

func TestShareRegistry_Create_ProtectedOwner(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, newMemoryKV(t))
	owner := env.register(t, "alice", "pw", "uuid-1")
	other := env.register(t, "bob", "pw", "uuid-2")

	req := models.ShareRequest{User: "uuid-1", DeckID: "d"}

	_, err := env.shares.Create(ctx, req, "")
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = env.shares.Create(ctx, req, other.SignedString)
	assert.ErrorIs(t, err, ErrAuthRequired)

	shareID, err := env.shares.Create(ctx, req, owner.SignedString)
	require.NoError(t, err)
	assert.NotEmpty(t, shareID)

	shares, err := env.kv.List(ctx, store.SharePrefix)
	require.NoError(t, err)
	assert.Len(t, shares, 1, "refused requests store nothing")
}

func TestShareRegistry_Resolve_Errors(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, newMemoryKV(t))

	_, err := env.shares.Resolve(ctx, "")
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = env.shares.Resolve(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrShareNotFound)

	shareID, err := env.shares.Create(ctx, models.ShareRequest{User: "uuid-gone", DeckID: "d"}, "")
	require.NoError(t, err)

	_, err = env.shares.Resolve(ctx, shareID)
	assert.ErrorIs(t, err, ErrStaleReference, "owner collection does not exist")
}

func TestShareRegistry_Resolve_LegacyText(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, newMemoryKV(t))

	for id, value := range map[string]string{
		"plain":       "Burn\n4x Lightning Bolt",
		"json-string": `"quoted"`,
		"partial-ref": `{"user":"uuid-1"}`,
	} {
		require.NoError(t, env.kv.Put(ctx, store.ShareKey(id), value))

		text, err := env.shares.Resolve(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, value, text, id)
	}
}

func TestShareRegistry_StoreFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	kv := mock.NewMockKV(ctrl)
	env := newTestEnv(t, newMemoryKV(t))
	shares := NewShareRegistry(kv, env.guard, env.decks, logger.Nop())
	ctx := context.Background()

	kv.EXPECT().Put(gomock.Any(), gomock.Any(), `{"user":"uuid-1","deckId":"d"}`).Return(errors.New("quota"))
	_, err := shares.Create(ctx, models.ShareRequest{User: "uuid-1", DeckID: "d"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")

	kv.EXPECT().Get(gomock.Any(), store.ShareKey("s")).Return("", errors.New("timeout"))
	_, err = shares.Resolve(ctx, "s")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrShareNotFound)
}
