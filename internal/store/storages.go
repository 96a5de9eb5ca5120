// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/decklister/internal/config"
	"github.com/MKhiriev/decklister/internal/logger"
)

// Storages bundles the storage handles the services depend on.
type Storages struct {
	KV KV
	// Sweeper is nil when the backend expires entries on its own.
	Sweeper Sweeper
	closer  io.Closer
}

// NewStorages opens the key-value backend selected by cfg.Driver. SQL
// backends are migrated before use.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Str("driver", cfg.Driver).Msg("creating storages")

	switch cfg.Driver {
	case config.DriverMemory, "":
		kv, err := NewInMemoryBadgerKV(log)
		if err != nil {
			return nil, err
		}
		return &Storages{KV: kv, closer: kv}, nil

	case config.DriverBadger:
		kv, err := NewBadgerKV(cfg.Badger.Dir, log)
		if err != nil {
			return nil, err
		}
		return &Storages{KV: kv, closer: kv}, nil

	case config.DriverPostgres, config.DriverSQLite:
		connect := NewConnectPostgres
		if cfg.Driver == config.DriverSQLite {
			connect = NewConnectSQLite
		}

		db, err := connect(ctx, cfg.DB.DSN, log)
		if err != nil {
			return nil, err
		}
		if err = db.Migrate(); err != nil {
			_ = db.Close()
			log.Err(err).Str("func", "NewStorages").Msg("error migrating database")
			return nil, fmt.Errorf("error migrating database: %w", err)
		}

		kv := NewSQLKV(db, log)
		return &Storages{KV: kv, Sweeper: kv, closer: kv}, nil

	case config.DriverS3:
		kv, err := NewS3KV(ctx, cfg.S3, log)
		if err != nil {
			return nil, err
		}
		return &Storages{KV: kv, closer: kv}, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

// Close releases the backend.
func (s *Storages) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
