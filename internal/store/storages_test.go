// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
)

func TestNewStorages_Memory(t *testing.T) {
	s, err := NewStorages(context.Background(), config.Storage{Driver: config.DriverMemory}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &BadgerKV{}, s.KV)
	assert.Nil(t, s.Sweeper)
}

func TestNewStorages_Badger(t *testing.T) {
	cfg := config.Storage{Driver: config.DriverBadger, Badger: config.Badger{Dir: t.TempDir()}}

	s, err := NewStorages(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &BadgerKV{}, s.KV)
	assert.Nil(t, s.Sweeper)
}

func TestNewStorages_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := config.Storage{
		Driver: config.DriverSQLite,
		DB:     config.DB{DSN: filepath.Join(t.TempDir(), "decks.db")},
	}

	s, err := NewStorages(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.IsType(t, &SQLKV{}, s.KV)
	runKVContract(t, func(t *testing.T) KV {
		prefix := t.Name() + "/"
		return prefixedKV{KV: s.KV, prefix: prefix}
	})
}

func TestNewStorages_UnknownDriver(t *testing.T) {
	_, err := NewStorages(context.Background(), config.Storage{Driver: "redis"}, logger.Nop())
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

// prefixedKV isolates contract subtests sharing one database.
type prefixedKV struct {
	KV
	prefix string
}

func (p prefixedKV) Get(ctx context.Context, key string) (string, error) {
	return p.KV.Get(ctx, p.prefix+key)
}

func (p prefixedKV) Put(ctx context.Context, key, value string, opts ...PutOption) error {
	return p.KV.Put(ctx, p.prefix+key, value, opts...)
}

func (p prefixedKV) Create(ctx context.Context, key, value string, opts ...PutOption) error {
	return p.KV.Create(ctx, p.prefix+key, value, opts...)
}

func (p prefixedKV) Delete(ctx context.Context, key string) error {
	return p.KV.Delete(ctx, p.prefix+key)
}

func (p prefixedKV) List(ctx context.Context, prefix string) ([]string, error) {
	keys, err := p.KV.List(ctx, p.prefix+prefix)
	for i := range keys {
		keys[i] = keys[i][len(p.prefix):]
	}
	return keys, err
}

func (p prefixedKV) Update(ctx context.Context, fn func(tx KV) error) error {
	return p.KV.(Transactional).Update(ctx, func(tx KV) error {
		return fn(prefixedKV{KV: tx, prefix: p.prefix})
	})
}
