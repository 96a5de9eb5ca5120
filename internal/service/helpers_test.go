// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
	"github.com/MKhiriev/decklister/internal/store"
	"github.com/MKhiriev/decklister/models"
)

func testAppConfig() config.App {
	return config.App{
		Profile:            config.ProfileDevelopment,
		TokenSignKey:       "test-sign-key-0123456789abcdef",
		TokenDuration:      time.Hour,
		PasswordIterations: 1000,
		NonceTTL:           5 * time.Minute,
		MaxDeckBytes:       1_000_000,
		LoginMaxFailures:   3,
		LoginFailureWindow: time.Minute,
		Version:            "test",
	}
}

// newMemoryKV opens an in-memory badger store closed with the test.
func newMemoryKV(t *testing.T) *store.BadgerKV {
	t.Helper()
	kv, err := store.NewInMemoryBadgerKV(logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

// nonTransactionalKV hides the Update method of the wrapped backend so
// services take their write-ahead paths.
type nonTransactionalKV struct {
	store.KV
}

// sequenceIDs generates predictable ids: prefix-1, prefix-2, ...
type sequenceIDs struct {
	prefix string
	n      atomic.Int64
}

func (g *sequenceIDs) Generate() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}

type testEnv struct {
	kv       store.KV
	index    AccountIndex
	tokens   TokenCodec
	nonces   NonceService
	registry AccountRegistry
	guard    AccessGuard
	decks    DeckStore
	shares   ShareRegistry
}

func newTestEnv(t *testing.T, kv store.KV) *testEnv {
	t.Helper()

	cfg := testAppConfig()
	log := logger.Nop()

	tokens, err := NewTokenCodec(cfg, log)
	require.NoError(t, err)

	index := NewAccountIndex(kv)
	nonces := NewNonceService(kv, index, cfg.NonceTTL, log)
	guard := NewAccessGuard(index, tokens)
	decks := NewDeckStore(kv, cfg.MaxDeckBytes, log)

	return &testEnv{
		kv:       kv,
		index:    index,
		tokens:   tokens,
		nonces:   nonces,
		registry: NewAccountRegistry(kv, nonces, NewPasswordHasher(cfg.PasswordIterations), tokens, noopThrottle{}, log),
		guard:    guard,
		decks:    decks,
		shares:   NewShareRegistry(kv, guard, decks, log),
	}
}

// register issues a nonce for uuid and registers username against it.
func (e *testEnv) register(t *testing.T, username, password, uuid string) models.Token {
	t.Helper()

	ctx := context.Background()
	nonce, err := e.nonces.Issue(ctx, uuid)
	require.NoError(t, err)

	token, err := e.registry.Register(ctx, models.RegisterRequest{
		Username:          username,
		Password:          password,
		UUID:              uuid,
		RegistrationNonce: nonce,
	})
	require.NoError(t, err)
	return token
}
