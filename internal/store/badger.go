// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/MKhiriev/decklister/internal/logger"
)

// badgerConflictRetries bounds how often an Update is replayed after
// badger reports a write conflict between concurrent transactions.
const badgerConflictRetries = 3

// BadgerKV is a [KV] backed by an embedded badger database, on disk or in
// memory. Expiry uses badger's native entry TTL, which has one second
// granularity.
type BadgerKV struct {
	db     *badger.DB
	logger *logger.Logger
}

// NewBadgerKV opens (or creates) the badger database in dir.
func NewBadgerKV(dir string, log *logger.Logger) (*BadgerKV, error) {
	return openBadger(badger.DefaultOptions(dir), log)
}

// NewInMemoryBadgerKV opens a badger database that lives only in memory.
// It backs the memory driver and test fixtures.
func NewInMemoryBadgerKV(log *logger.Logger) (*BadgerKV, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithMemTableSize(16 << 20).
		WithBlockCacheSize(16 << 20)
	return openBadger(opts, log)
}

func openBadger(opts badger.Options, log *logger.Logger) (*BadgerKV, error) {
	opts = opts.WithLogger(badgerLogger{log})

	db, err := badger.Open(opts)
	if err != nil {
		log.Err(err).Str("func", "openBadger").Msg("error opening badger database")
		return nil, fmt.Errorf("error opening badger database: %w", err)
	}
	log.Info().Str("dir", opts.Dir).Bool("in_memory", opts.InMemory).Msg("badger database opened")

	return &BadgerKV{db: db, logger: log}, nil
}

// Get implements [KV].
func (b *BadgerKV) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		value, err = (&badgerTx{txn: txn}).Get(ctx, key)
		return err
	})
	return value, err
}

// Put implements [KV].
func (b *BadgerKV) Put(ctx context.Context, key, value string, opts ...PutOption) error {
	return b.Update(ctx, func(tx KV) error {
		return tx.Put(ctx, key, value, opts...)
	})
}

// Create implements [KV].
func (b *BadgerKV) Create(ctx context.Context, key, value string, opts ...PutOption) error {
	return b.Update(ctx, func(tx KV) error {
		return tx.Create(ctx, key, value, opts...)
	})
}

// Delete implements [KV].
func (b *BadgerKV) Delete(ctx context.Context, key string) error {
	return b.Update(ctx, func(tx KV) error {
		return tx.Delete(ctx, key)
	})
}

// List implements [KV].
func (b *BadgerKV) List(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []string
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		keys, err = (&badgerTx{txn: txn}).List(ctx, prefix)
		return err
	})
	return keys, err
}

// Update implements [Transactional]. Badger's optimistic concurrency
// control may abort a commit with [badger.ErrConflict]; such updates are
// replayed so that a losing Create observes the winner's key.
func (b *BadgerKV) Update(ctx context.Context, fn func(tx KV) error) error {
	var err error
	for attempt := 0; attempt < badgerConflictRetries; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		err = b.db.Update(func(txn *badger.Txn) error {
			return fn(&badgerTx{txn: txn})
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		b.logger.Debug().Int("attempt", attempt+1).Msg("badger transaction conflict, retrying")
	}
	return err
}

// Close flushes and closes the database.
func (b *BadgerKV) Close() error {
	return b.db.Close()
}

type badgerTx struct {
	txn *badger.Txn
}

func (t *badgerTx) Get(_ context.Context, key string) (string, error) {
	item, err := t.txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("error reading key: %w", err)
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return "", fmt.Errorf("error copying value: %w", err)
	}
	return string(value), nil
}

func (t *badgerTx) Put(_ context.Context, key, value string, opts ...PutOption) error {
	o := applyPutOptions(opts)

	entry := badger.NewEntry([]byte(key), []byte(value))
	if o.ttl > 0 {
		entry = entry.WithTTL(o.ttl)
	}
	if err := t.txn.SetEntry(entry); err != nil {
		return fmt.Errorf("error writing key: %w", err)
	}
	return nil
}

func (t *badgerTx) Create(ctx context.Context, key, value string, opts ...PutOption) error {
	_, err := t.Get(ctx, key)
	switch {
	case err == nil:
		return ErrKeyExists
	case !errors.Is(err, ErrKeyNotFound):
		return err
	}
	return t.Put(ctx, key, value, opts...)
}

func (t *badgerTx) Delete(_ context.Context, key string) error {
	if err := t.txn.Delete([]byte(key)); err != nil {
		return fmt.Errorf("error deleting key: %w", err)
	}
	return nil
}

func (t *badgerTx) List(_ context.Context, prefix string) ([]string, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = []byte(prefix)

	it := t.txn.NewIterator(opts)
	defer it.Close()

	keys := make([]string, 0)
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		if item.IsDeletedOrExpired() {
			continue
		}
		keys = append(keys, string(item.KeyCopy(nil)))
	}
	return keys, nil
}

// badgerLogger routes badger's internal logging into zerolog.
type badgerLogger struct {
	log *logger.Logger
}

func (l badgerLogger) Errorf(format string, args ...any) {
	l.log.Error().Str("component", "badger").Msgf(format, args...)
}

func (l badgerLogger) Warningf(format string, args ...any) {
	l.log.Warn().Str("component", "badger").Msgf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...any) {
	l.log.Debug().Str("component", "badger").Msgf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...any) {
	l.log.Trace().Str("component", "badger").Msgf(format, args...)
}

// compile-time checks
var (
	_ KV            = (*BadgerKV)(nil)
	_ Transactional = (*BadgerKV)(nil)
)
