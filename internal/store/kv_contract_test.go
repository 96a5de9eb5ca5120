// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runKVContract exercises the behaviour every KV backend must share.
func runKVContract(t *testing.T, newKV func(t *testing.T) KV) {
	ctx := context.Background()

	t.Run("get missing key", func(t *testing.T) {
		kv := newKV(t)
		_, err := kv.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Put(ctx, "user:a", `[{"id":"1","text":"Burn"}]`))

		v, err := kv.Get(ctx, "user:a")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1","text":"Burn"}]`, v)
	})

	t.Run("put overwrites", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Put(ctx, "k", "one"))
		require.NoError(t, kv.Put(ctx, "k", "two"))

		v, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, "two", v)
	})

	t.Run("create is insert only", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Create(ctx, "account:bob", "first"))
		assert.ErrorIs(t, kv.Create(ctx, "account:bob", "second"), ErrKeyExists)

		v, err := kv.Get(ctx, "account:bob")
		require.NoError(t, err)
		assert.Equal(t, "first", v)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		kv := newKV(t)
		require.NoError(t, kv.Put(ctx, "k", "v"))
		require.NoError(t, kv.Delete(ctx, "k"))
		require.NoError(t, kv.Delete(ctx, "k"))

		_, err := kv.Get(ctx, "k")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("list by prefix sorted", func(t *testing.T) {
		kv := newKV(t)
		for _, k := range []string{"account:zed", "account:amy", "uuid-account:1", "share:x"} {
			require.NoError(t, kv.Put(ctx, k, "v"))
		}

		keys, err := kv.List(ctx, AccountPrefix)
		require.NoError(t, err)
		assert.Equal(t, []string{"account:amy", "account:zed"}, keys)

		keys, err = kv.List(ctx, "nothing:")
		require.NoError(t, err)
		assert.Empty(t, keys)
	})

	t.Run("update commits", func(t *testing.T) {
		kv := newKV(t)
		txKV, ok := kv.(Transactional)
		if !ok {
			t.Skip("backend is not transactional")
		}

		err := txKV.Update(ctx, func(tx KV) error {
			if err := tx.Create(ctx, "uuid-account:u1", "bob"); err != nil {
				return err
			}
			return tx.Create(ctx, "account:bob", "{}")
		})
		require.NoError(t, err)

		_, err = kv.Get(ctx, "uuid-account:u1")
		assert.NoError(t, err)
		_, err = kv.Get(ctx, "account:bob")
		assert.NoError(t, err)
	})

	t.Run("update rolls back on error", func(t *testing.T) {
		kv := newKV(t)
		txKV, ok := kv.(Transactional)
		if !ok {
			t.Skip("backend is not transactional")
		}
		require.NoError(t, kv.Put(ctx, "account:bob", "{}"))

		err := txKV.Update(ctx, func(tx KV) error {
			if err := tx.Put(ctx, "uuid-account:u2", "bob"); err != nil {
				return err
			}
			return tx.Create(ctx, "account:bob", "{}")
		})
		assert.ErrorIs(t, err, ErrKeyExists)

		_, err = kv.Get(ctx, "uuid-account:u2")
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})

	t.Run("update sees own writes", func(t *testing.T) {
		kv := newKV(t)
		txKV, ok := kv.(Transactional)
		if !ok {
			t.Skip("backend is not transactional")
		}

		errDone := errors.New("done")
		err := txKV.Update(ctx, func(tx KV) error {
			require.NoError(t, tx.Put(ctx, "k", "staged"))
			v, err := tx.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "staged", v)
			return errDone
		})
		assert.ErrorIs(t, err, errDone)
	})
}
