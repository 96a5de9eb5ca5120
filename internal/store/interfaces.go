// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"time"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KV is the string key-value contract every storage backend implements.
//
// Values are opaque strings. A value written with [WithTTL] disappears once
// its expiry passes: Get reports [ErrKeyNotFound], List omits the key and
// Create treats the key as free.
type KV interface {
	// Get returns the live value stored under key or [ErrKeyNotFound].
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string, opts ...PutOption) error

	// Create stores value under key only if no live value exists,
	// otherwise it returns [ErrKeyExists].
	Create(ctx context.Context, key, value string, opts ...PutOption) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns the live keys starting with prefix in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Transactional is implemented by backends that can apply several KV
// operations atomically. fn runs against a transaction-scoped KV; when it
// returns an error nothing it wrote is kept.
type Transactional interface {
	Update(ctx context.Context, fn func(tx KV) error) error
}

// Sweeper is implemented by backends that keep expired entries around until
// something removes them. Sweep reclaims them and reports how many were
// removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// PutOption customises a Put or Create call.
type PutOption func(*putOptions)

type putOptions struct {
	ttl time.Duration
}

// WithTTL makes the written value expire after ttl. Non-positive values
// mean no expiry.
func WithTTL(ttl time.Duration) PutOption {
	return func(o *putOptions) { o.ttl = ttl }
}

func applyPutOptions(opts []PutOption) putOptions {
	var o putOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// expiresAt returns the absolute expiry for a write made at now, or the
// zero time when the value does not expire.
func (o putOptions) expiresAt(now time.Time) time.Time {
	if o.ttl <= 0 {
		return time.Time{}
	}
	return now.Add(o.ttl)
}
